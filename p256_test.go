// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package p256

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

func randScalar(t *testing.T, rnd *rand.Rand) Scalar {
	t.Helper()

	N := nBig()
	for {
		v := new(big.Int).Rand(rnd, N)
		if v.Sign() == 0 {
			continue
		}
		var b [32]byte
		v.FillBytes(b[:])
		s, ok := ScalarFromBytes(&b)
		require.True(t, ok)
		return s
	}
}

func randHash(rnd *rand.Rand) []byte {
	h := make([]byte, 32)
	_, _ = rnd.Read(h)
	return h
}

// TestKeygenMatchesScalarMultBase checks invariant 3: `keygen(d) ==
// scalarmult_base(d)` for random in-range d.
func TestKeygenMatchesScalarMultBase(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 32; i++ {
		d := randScalar(t, rnd)

		qx1, qy1, ok1 := Keygen(&d)
		require.True(t, ok1)

		qx2, qy2, ok2 := ScalarMultBase(&d)
		require.True(t, ok2)

		require.Equal(t, qx1, qx2)
		require.Equal(t, qy1, qy2)
	}
}

// TestSignVerifyRoundTrip checks invariant 4 (soundness) and invariant
// 5 (malleability acceptance): for random (d, hash, k), a successful
// Sign produces an (r, s) that Verify accepts under keygen(d), and
// (r, n-s) also verifies.
func TestSignVerifyRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	N := nBig()

	for i := 0; i < 32; i++ {
		d := randScalar(t, rnd)
		k := randScalar(t, rnd)
		hash := randHash(rnd)

		qx, qy, ok := Keygen(&d)
		require.True(t, ok)

		r, s, ok := Sign(hash, &d, &k)
		require.True(t, ok)

		require.True(t, Verify(&qx, &qy, hash, &r, &s))

		sBig := new(big.Int).SetBytes(func() []byte { b := s.Bytes(); return b[:] }())
		negS := new(big.Int).Sub(N, sBig)
		var negSBytes [32]byte
		negS.FillBytes(negSBytes[:])
		negSScalar, ok := ScalarFromBytes(&negSBytes)
		require.True(t, ok)

		require.True(t, Verify(&qx, &qy, hash, &r, &negSScalar))
	}
}

// TestVerifyRejectsTamperedS checks that flipping a bit of s causes
// Verify to reject (outcome S3 in spec.md §8, checked on one random
// signature rather than the fixed vector).
func TestVerifyRejectsTamperedS(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))

	d := randScalar(t, rnd)
	k := randScalar(t, rnd)
	hash := randHash(rnd)

	qx, qy, ok := Keygen(&d)
	require.True(t, ok)

	r, s, ok := Sign(hash, &d, &k)
	require.True(t, ok)
	require.True(t, Verify(&qx, &qy, hash, &r, &s))

	sBytes := s.Bytes()
	sBytes[31] ^= 1
	tamperedS, ok := ScalarFromBytes(&sBytes)
	require.True(t, ok)

	require.False(t, Verify(&qx, &qy, hash, &r, &tamperedS))
}

// TestECDHSymmetry checks invariant 6: for two key pairs (a, A) and
// (b, B), `ecdh(a, B) == ecdh(b, A)`.
func TestECDHSymmetry(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	for i := 0; i < 16; i++ {
		a := randScalar(t, rnd)
		b := randScalar(t, rnd)

		ax, ay, ok := Keygen(&a)
		require.True(t, ok)
		bx, by, ok := Keygen(&b)
		require.True(t, ok)

		sharedAB, ok := ECDH(&a, &bx, &by)
		require.True(t, ok)
		sharedBA, ok := ECDH(&b, &ax, &ay)
		require.True(t, ok)

		require.Equal(t, sharedAB, sharedBA)
	}
}

// TestRangeRejection checks invariant 8: the validated entry points
// reject scalars equal to 0 or >= n.
func TestRangeRejection(t *testing.T) {
	var zero Scalar
	_, _, ok := Keygen(&zero)
	require.False(t, ok)

	N := nBig()
	var nBytes [32]byte
	N.FillBytes(nBytes[:])
	nScalar, ok := ScalarFromBytes(&nBytes)
	require.False(t, ok, "n itself is not a canonical scalar encoding")
	_, _, ok = Keygen(&nScalar)
	require.False(t, ok)

	rnd := rand.New(rand.NewSource(5))
	d := randScalar(t, rnd)
	qx, qy, ok := Keygen(&d)
	require.True(t, ok)

	hash := randHash(rnd)
	require.False(t, Verify(&qx, &qy, hash, &zero, &zero))
}

// TestOffCurveRejection checks invariant 9: Verify and point decoding
// reject points that do not satisfy the curve equation.
func TestOffCurveRejection(t *testing.T) {
	rnd := rand.New(rand.NewSource(6))
	d := randScalar(t, rnd)
	qx, qy, ok := Keygen(&d)
	require.True(t, ok)

	// Flip a bit of Qy so the point moves off the curve.
	qyBytes := qy.Bytes()
	qyBytes[31] ^= 1
	badQy, ok := CoordinateFromBytes(&qyBytes)
	require.True(t, ok)

	k := randScalar(t, rnd)
	hash := randHash(rnd)
	r, s, ok := Sign(hash, &d, &k)
	require.True(t, ok)

	require.False(t, Verify(&qx, &badQy, hash, &r, &s))

	_, err := NewPoint(&qx, &badQy)
	require.Error(t, err)

	pt, err := NewPoint(&qx, &qy)
	require.NoError(t, err)
	enc := pt.Uncompressed()
	enc[64] ^= 1 // corrupt the low byte of Y
	_, err = NewPointFromOctetString(enc)
	require.Error(t, err)
}

// TestPointEncodingRoundTrip checks invariant 7 across all three SEC1
// encodings.
func TestPointEncodingRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 16; i++ {
		d := randScalar(t, rnd)
		qx, qy, ok := Keygen(&d)
		require.True(t, ok)

		pt, err := NewPoint(&qx, &qy)
		require.NoError(t, err)

		for _, enc := range [][]byte{pt.Uncompressed(), pt.Compressed(), pt.Hybrid()} {
			decoded, err := NewPointFromOctetString(enc)
			require.NoError(t, err)

			dx, dy := decoded.XY()
			require.Equal(t, qx, dx)
			require.Equal(t, qy, dy)
		}
	}
}

// TestScalarMultGenericMatchesECDH checks that the raw variable-base
// ladder and the ECDH wrapper around it agree on the x-coordinate they
// produce.
func TestScalarMultGenericMatchesECDH(t *testing.T) {
	rnd := rand.New(rand.NewSource(8))
	a := randScalar(t, rnd)
	b := randScalar(t, rnd)

	bx, by, ok := Keygen(&b)
	require.True(t, ok)

	rx, _, ok := ScalarMultGeneric(&a, &bx, &by)
	require.True(t, ok)

	shared, ok := ECDH(&a, &bx, &by)
	require.True(t, ok)

	require.Equal(t, rx.Bytes(), shared)
}

// TestSignStep1Step2MatchesSign checks that the split signing API
// produces identical output to the one-shot Sign.
func TestSignStep1Step2MatchesSign(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	d := randScalar(t, rnd)
	k := randScalar(t, rnd)
	hash := randHash(rnd)

	r1, s1, ok := Sign(hash, &d, &k)
	require.True(t, ok)

	pc, ok := SignStep1(&k)
	require.True(t, ok)
	r2, s2, ok := SignStep2(hash, &d, pc)
	require.True(t, ok)

	require.Equal(t, r1, r2)
	require.Equal(t, s1, s2)
}
