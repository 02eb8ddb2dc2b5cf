package fp

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func pBig() *big.Int {
	b, _ := new(big.Int).SetString("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", 16)
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
	v = new(big.Int).Mod(v, pBig())
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
	P := pBig()
	rnd := rand.New(rand.NewSource(1))
	r := new(big.Int).Lsh(big.NewInt(1), 256)
	rInv := new(big.Int).ModInverse(r, P)
	require.NotNil(t, rInv)

	for i := 0; i < 256; i++ {
		a := new(big.Int).Rand(rnd, P)
		b := new(big.Int).Rand(rnd, P)
		ea := bigToElem(t, a)
		eb := bigToElem(t, b)

		var got Elem
		MulMont(&got, &ea, &eb)

		want := new(big.Int).Mul(a, b)
		want.Mul(want, rInv)
		want.Mod(want, P)

		require.Equal(t, want, elemToBig(&got), "iteration %d: a=%s b=%s", i, a, b)
	}
}

func TestToFromMontRoundTrip(t *testing.T) {
	P := pBig()
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 64; i++ {
		a := new(big.Int).Rand(rnd, P)
		ea := bigToElem(t, a)

		var mont, back Elem
		ToMont(&mont, &ea)
		FromMont(&back, &mont)

		require.Equal(t, ea, back)
	}
}

func TestAddSubModP(t *testing.T) {
	P := pBig()
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 128; i++ {
		a := new(big.Int).Rand(rnd, P)
		b := new(big.Int).Rand(rnd, P)
		ea := bigToElem(t, a)
		eb := bigToElem(t, b)

		var sum Elem
		AddModP(&sum, &ea, &eb)
		wantSum := new(big.Int).Add(a, b)
		wantSum.Mod(wantSum, P)
		require.Equal(t, wantSum, elemToBig(&sum))

		var diff Elem
		SubModP(&diff, &ea, &eb)
		wantDiff := new(big.Int).Sub(a, b)
		wantDiff.Mod(wantDiff, P)
		require.Equal(t, wantDiff, elemToBig(&diff))
	}
}

func TestNegateModPIf(t *testing.T) {
	P := pBig()
	rnd := rand.New(rand.NewSource(4))

	var zero Elem
	var negZero Elem
	NegateModPIf(&negZero, &zero, 1)
	require.Equal(t, uint32(1), IsZero(&negZero))

	a := new(big.Int).Rand(rnd, P)
	ea := bigToElem(t, a)

	var unchanged Elem
	NegateModPIf(&unchanged, &ea, 0)
	require.Equal(t, ea, unchanged)

	var negated Elem
	NegateModPIf(&negated, &ea, 1)
	want := new(big.Int).Neg(a)
	want.Mod(want, P)
	require.Equal(t, want, elemToBig(&negated))
	require.True(t, CheckRangeP(&negated))
}

func TestCheckRangeP(t *testing.T) {
	require.True(t, CheckRangeP(&Elem{0, 0, 0, 0, 0, 0, 0, 0}))
	require.False(t, CheckRangeP(&p))

	almost := p
	almost[0]--
	require.True(t, CheckRangeP(&almost))
}

// TestGeneratorIsOnCurve checks y^2 == x^3 - 3x + b (mod p) for the base
// point, entirely in Montgomery form.
func TestGeneratorIsOnCurve(t *testing.T) {
	var lhs Elem
	SqrMont(&lhs, &GeneratorY)

	var x3, three, rhs Elem
	SqrMont(&x3, &GeneratorX)
	MulMont(&x3, &x3, &GeneratorX)

	AddModP(&three, &GeneratorX, &GeneratorX)
	AddModP(&three, &three, &GeneratorX)
	SubModP(&rhs, &x3, &three)
	AddModP(&rhs, &rhs, &B)

	require.Equal(t, uint32(1), Equal(&lhs, &rhs))
}
