package curve

import (
	"gitlab.com/yawning/p256-voi/internal/fn"
	"gitlab.com/yawning/p256-voi/internal/fp"
)

// ScalarMult sets outX, outY to the affine (Montgomery form)
// coordinates of `scalar*P`, where P is the affine point (inMontX,
// inMontY), also in Montgomery form. scalar is taken mod n (its raw
// limbs, already reduced by the caller).
//
// Based on https://eprint.iacr.org/2014/130.pdf, Algorithm 1: negate
// the scalar (mod n) if it is even so the ladder only ever needs to
// handle odd scalars, recode it as 64 signed 4-bit odd digits, and
// walk the digits MSB to LSB with 4 doublings and one table lookup
// per digit. Runs in constant time for every scalar. The scalars 2
// and n-2 give an incorrect result, because the point addition
// formula does not handle adding a point to itself (see AddSubJ);
// this single documented exception is inherited unchanged from the
// reference implementation.
func ScalarMult(outX, outY *fp.Elem, inMontX, inMontY *fp.Elem, scalar *fn.Elem) {
	even := 1 ^ (scalar[0] & 1)
	var scalar2 fn.Elem
	fn.NegateModNIf(&scalar2, scalar, even)

	var e [64]int32
	e[0] = int32(scalar2[0] & 0xf)
	for i := 1; i < 64; i++ {
		limb := i / 8
		shift := uint((i % 8) * 4)
		e[i] = int32((scalar2[limb] >> shift) & 0xf)
		adjust := int32((e[i]&1)^1) << 4 // 16 if e[i] is even, 0 if odd
		e[i-1] -= adjust
		e[i] |= 1
	}

	var table [8]JacobianPoint
	table[0] = FromAffine(&AffinePoint{X: *inMontX, Y: *inMontY})
	DoubleJ(&table[7], &table[0])
	for i := 1; i < 8; i++ {
		table[i] = table[7]
		prev := table[i-1]
		AddSubJ(&table[i], &prev.X, &prev.Y, &prev.Z, false, false)
	}

	var current JacobianPoint
	SelectJacobian(&current, table[:], uint32(e[63])>>1)

	for i := 62; i >= 0; i-- {
		for j := 0; j < 4; j++ {
			DoubleJ(&current, &current)
		}

		var selected JacobianPoint
		SelectJacobian(&selected, table[:], absInt32(e[i])>>1)

		negFlag := uint32(e[i]>>31) & 1
		fp.NegateModPIf(&selected.Y, &selected.Y, negFlag)

		AddSubJ(&current, &selected.X, &selected.Y, &selected.Z, false, false)
	}

	ToAffine(outX, outY, &current)
	fp.NegateModPIf(outY, outY, even)

	fn.Zeroize(&scalar2)
	e = [64]int32{}
	table = [8]JacobianPoint{}
	current = JacobianPoint{}
}

func absInt32(a int32) uint32 {
	mask := a >> 31
	return uint32((a ^ mask) - mask)
}
