package fn

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func nBig() *big.Int {
	b, _ := new(big.Int).SetString("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551", 16)
	return b
}

func elemToBig(e *Elem) *big.Int {
	out := new(big.Int)
	for i := 7; i >= 0; i-- {
		out.Lsh(out, 32)
		out.Or(out, new(big.Int).SetUint64(uint64(e[i])))
	}
	return out
}

func bigToElem(t *testing.T, v *big.Int) Elem {
	t.Helper()
	N := nBig()
	v = new(big.Int).Mod(v, N)
	var e Elem
	tmp := new(big.Int).Set(v)
	mask := new(big.Int).SetUint64(0xffffffff)
	for i := 0; i < 8; i++ {
		limb := new(big.Int).And(tmp, mask)
		e[i] = uint32(limb.Uint64())
		tmp.Rsh(tmp, 32)
	}
	return e
}

func TestMulMontAgainstBigInt(t *testing.T) {
	N := nBig()
	rnd := rand.New(rand.NewSource(10))
	r := new(big.Int).Lsh(big.NewInt(1), 256)
	rInv := new(big.Int).ModInverse(r, N)

	for i := 0; i < 256; i++ {
		a := new(big.Int).Rand(rnd, N)
		b := new(big.Int).Rand(rnd, N)
		ea := bigToElem(t, a)
		eb := bigToElem(t, b)

		var got Elem
		MulMont(&got, &ea, &eb)

		want := new(big.Int).Mul(a, b)
		want.Mul(want, rInv)
		want.Mod(want, N)

		require.Equal(t, want, elemToBig(&got))
	}
}

func TestAddSubModN(t *testing.T) {
	N := nBig()
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 128; i++ {
		a := new(big.Int).Rand(rnd, N)
		b := new(big.Int).Rand(rnd, N)
		ea := bigToElem(t, a)
		eb := bigToElem(t, b)

		var sum Elem
		AddModN(&sum, &ea, &eb)
		wantSum := new(big.Int).Add(a, b)
		wantSum.Mod(wantSum, N)
		require.Equal(t, wantSum, elemToBig(&sum))

		var diff Elem
		SubModN(&diff, &ea, &eb)
		wantDiff := new(big.Int).Sub(a, b)
		wantDiff.Mod(wantDiff, N)
		require.Equal(t, wantDiff, elemToBig(&diff))
	}
}

func TestInvert(t *testing.T) {
	N := nBig()
	rnd := rand.New(rand.NewSource(12))
	for i := 0; i < 64; i++ {
		a := new(big.Int).Rand(rnd, N)
		if a.Sign() == 0 {
			a.SetInt64(1)
		}
		ea := bigToElem(t, a)

		var inv Elem
		Invert(&inv, &ea)

		prodNonMont := new(big.Int).Mul(a, elemToBig(&inv))
		prodNonMont.Mod(prodNonMont, N)
		require.Equal(t, big.NewInt(1), prodNonMont)
	}
}

func TestInvertZero(t *testing.T) {
	var zero, inv Elem
	Invert(&inv, &zero)
	require.Equal(t, uint32(1), IsZero(&inv))
}

func TestInvertVartimeMatchesInvert(t *testing.T) {
	N := nBig()
	rnd := rand.New(rand.NewSource(13))
	for i := 0; i < 32; i++ {
		a := new(big.Int).Rand(rnd, N)
		if a.Sign() == 0 {
			a.SetInt64(1)
		}
		ea := bigToElem(t, a)

		var inv, invV Elem
		Invert(&inv, &ea)
		InvertVartime(&invV, &ea)

		require.Equal(t, inv, invV)
	}
}

func TestCheckRangeN(t *testing.T) {
	require.True(t, CheckRangeN(&Elem{0, 0, 0, 0, 0, 0, 0, 0}))
	require.False(t, CheckRangeN(&n))
}

func TestIsGreaterThanHalfN(t *testing.T) {
	var zero Elem
	require.False(t, IsGreaterThanHalfN(&zero))

	almostN := n
	almostN[0]--
	require.True(t, IsGreaterThanHalfN(&almostN))
}
