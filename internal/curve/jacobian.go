package curve

import "gitlab.com/yawning/p256-voi/internal/fp"

// DoubleJ sets out = 2*in (Jacobian point doubling) and returns out,
// using the a=-3 doubling formulas (dbl-2007-bl, see
// hyperelliptic.org/EFD/g1p/auto-shortw-jacobian-3.html). out and in
// may alias.
//
// The formula is polynomial in Z1 (no divisions, no branches), so it
// handles the point-at-infinity input (Z1 == 0) without a special
// case: every term built from delta = Z1^2 collapses and Z3 comes out
// to 0 automatically.
func DoubleJ(out, in *JacobianPoint) *JacobianPoint {
	x1, y1, z1 := in.X, in.Y, in.Z

	var delta, gamma, beta, alpha fp.Elem
	fp.SqrMont(&delta, &z1)
	fp.SqrMont(&gamma, &y1)
	fp.MulMont(&beta, &x1, &gamma)

	var xMinusDelta, xPlusDelta fp.Elem
	fp.SubModP(&xMinusDelta, &x1, &delta)
	fp.AddModP(&xPlusDelta, &x1, &delta)

	var base, twice fp.Elem
	fp.MulMont(&base, &xMinusDelta, &xPlusDelta)
	fp.AddModP(&twice, &base, &base)
	fp.AddModP(&alpha, &twice, &base) // alpha = 3*(X1-delta)*(X1+delta)

	var eightBeta, fourBeta, twoBeta fp.Elem
	fp.AddModP(&twoBeta, &beta, &beta)
	fp.AddModP(&fourBeta, &twoBeta, &twoBeta)
	fp.AddModP(&eightBeta, &fourBeta, &fourBeta)

	var x3, alphaSq fp.Elem
	fp.SqrMont(&alphaSq, &alpha)
	fp.SubModP(&x3, &alphaSq, &eightBeta)

	var y1PlusZ1, z3, gammaPlusDelta fp.Elem
	fp.AddModP(&y1PlusZ1, &y1, &z1)
	fp.SqrMont(&z3, &y1PlusZ1)
	fp.AddModP(&gammaPlusDelta, &gamma, &delta)
	fp.SubModP(&z3, &z3, &gammaPlusDelta)

	var y3, fourBetaMinusX3, gammaSq, eightGammaSq fp.Elem
	fp.SubModP(&fourBetaMinusX3, &fourBeta, &x3)
	fp.MulMont(&y3, &alpha, &fourBetaMinusX3)
	fp.SqrMont(&gammaSq, &gamma)
	var fourGammaSq fp.Elem
	fp.AddModP(&fourGammaSq, &gammaSq, &gammaSq)
	fp.AddModP(&fourGammaSq, &fourGammaSq, &fourGammaSq)
	fp.AddModP(&eightGammaSq, &fourGammaSq, &fourGammaSq)
	fp.SubModP(&y3, &y3, &eightGammaSq)

	out.X, out.Y, out.Z = x3, y3, z3
	return out
}

// AddSubJ sets p1 = p1 +/- p2 (Jacobian addition, or subtraction when
// isSub is true, meaning p2's Y coordinate is negated before adding),
// treating p2 as affine (Z2 implicitly 1) when p2IsAffine is true, and
// returns p1. If p1 is the point at infinity (Z1 == 0), the result is
// p2 (negated when isSub), selected in constant time.
//
// Uses add-2007-bl / madd-2007-bl (hyperelliptic.org/EFD). As with the
// Cortex-M4 original this engine is ported from, these formulas are
// not complete: p1 == p2 (should double) and p1 == -p2 (infinity) are
// not specially handled. Every call site in this package avoids both
// cases by construction (odd-scalar recoding and window selection
// never reuse the same table entry against itself), except for the
// single acknowledged edge case in the variable-base ladder.
func AddSubJ(p1 *JacobianPoint, p2x, p2y, p2z *fp.Elem, isSub, p2IsAffine bool) *JacobianPoint {
	var y2 fp.Elem
	fp.NegateModPIf(&y2, p2y, boolToFlag(isSub))

	p1IsInf := p1.IsInfinity()
	x2, z2 := *p2x, fp.OneMontgomery()
	if p2IsAffine {
		maddBL(p1, &x2, &y2)
	} else {
		z2 = *p2z
		addBL(p1, &x2, &y2, &z2)
	}

	fp.ConditionalSelect(&p1.X, &p1.X, &x2, p1IsInf)
	fp.ConditionalSelect(&p1.Y, &p1.Y, &y2, p1IsInf)
	fp.ConditionalSelect(&p1.Z, &p1.Z, &z2, p1IsInf)
	return p1
}

func boolToFlag(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// maddBL implements madd-2007-bl: p2's Z is implicitly 1 (Montgomery).
func maddBL(p1 *JacobianPoint, x2, y2 *fp.Elem) *JacobianPoint {
	x1, y1, z1 := p1.X, p1.Y, p1.Z

	var z1z1 fp.Elem
	fp.SqrMont(&z1z1, &z1)

	var u2 fp.Elem
	fp.MulMont(&u2, x2, &z1z1)

	var s2, z1z1z1 fp.Elem
	fp.MulMont(&z1z1z1, &z1, &z1z1)
	fp.MulMont(&s2, y2, &z1z1z1)

	var h fp.Elem
	fp.SubModP(&h, &u2, &x1)

	var hh fp.Elem
	fp.SqrMont(&hh, &h)

	var i, twoHH fp.Elem
	fp.AddModP(&twoHH, &hh, &hh)
	fp.AddModP(&i, &twoHH, &twoHH)

	var j fp.Elem
	fp.MulMont(&j, &h, &i)

	var rr, s2MinusY1 fp.Elem
	fp.SubModP(&s2MinusY1, &s2, &y1)
	fp.AddModP(&rr, &s2MinusY1, &s2MinusY1)

	var v fp.Elem
	fp.MulMont(&v, &x1, &i)

	var x3, rrSq, j2v fp.Elem
	fp.SqrMont(&rrSq, &rr)
	fp.AddModP(&j2v, &j, &v)
	fp.AddModP(&j2v, &j2v, &v)
	fp.SubModP(&x3, &rrSq, &j2v)

	var y3, vMinusX3, twoY1J, y1J fp.Elem
	fp.SubModP(&vMinusX3, &v, &x3)
	fp.MulMont(&y3, &rr, &vMinusX3)
	fp.MulMont(&y1J, &y1, &j)
	fp.AddModP(&twoY1J, &y1J, &y1J)
	fp.SubModP(&y3, &y3, &twoY1J)

	var z3, z1PlusH, z1PlusHSq fp.Elem
	fp.AddModP(&z1PlusH, &z1, &h)
	fp.SqrMont(&z1PlusHSq, &z1PlusH)
	fp.SubModP(&z3, &z1PlusHSq, &z1z1)
	fp.SubModP(&z3, &z3, &hh)

	p1.X, p1.Y, p1.Z = x3, y3, z3
	return p1
}

// addBL implements add-2007-bl: both points are full Jacobian triples.
func addBL(p1 *JacobianPoint, x2, y2, z2 *fp.Elem) *JacobianPoint {
	x1, y1, z1 := p1.X, p1.Y, p1.Z

	var z1z1, z2z2 fp.Elem
	fp.SqrMont(&z1z1, &z1)
	fp.SqrMont(&z2z2, z2)

	var u1, u2 fp.Elem
	fp.MulMont(&u1, &x1, &z2z2)
	fp.MulMont(&u2, x2, &z1z1)

	var s1, s2, z2z2z2, z1z1z1 fp.Elem
	fp.MulMont(&z2z2z2, z2, &z2z2)
	fp.MulMont(&s1, &y1, &z2z2z2)
	fp.MulMont(&z1z1z1, &z1, &z1z1)
	fp.MulMont(&s2, y2, &z1z1z1)

	var h fp.Elem
	fp.SubModP(&h, &u2, &u1)

	var i, twoH, twoHSq fp.Elem
	fp.AddModP(&twoH, &h, &h)
	fp.SqrMont(&twoHSq, &twoH)
	i = twoHSq

	var j fp.Elem
	fp.MulMont(&j, &h, &i)

	var rr, twoS2MinusS1 fp.Elem
	fp.SubModP(&twoS2MinusS1, &s2, &s1)
	fp.AddModP(&rr, &twoS2MinusS1, &twoS2MinusS1)

	var v fp.Elem
	fp.MulMont(&v, &u1, &i)

	var x3, rrSq, j2v fp.Elem
	fp.SqrMont(&rrSq, &rr)
	fp.AddModP(&j2v, &j, &v)
	fp.AddModP(&j2v, &j2v, &v)
	fp.SubModP(&x3, &rrSq, &j2v)

	var y3, vMinusX3, twoS1J, s1J fp.Elem
	fp.SubModP(&vMinusX3, &v, &x3)
	fp.MulMont(&y3, &rr, &vMinusX3)
	fp.MulMont(&s1J, &s1, &j)
	fp.AddModP(&twoS1J, &s1J, &s1J)
	fp.SubModP(&y3, &y3, &twoS1J)

	var z3, z1PlusZ2, z1PlusZ2Sq, zSum fp.Elem
	fp.AddModP(&z1PlusZ2, &z1, z2)
	fp.SqrMont(&z1PlusZ2Sq, &z1PlusZ2)
	fp.AddModP(&zSum, &z1z1, &z2z2)
	fp.SubModP(&z3, &z1PlusZ2Sq, &zSum)
	fp.MulMont(&z3, &z3, &h)

	p1.X, p1.Y, p1.Z = x3, y3, z3
	return p1
}

// ToAffine sets x, y to the affine coordinates of p, dividing by
// Z^2 and Z^3 respectively via a constant-time field inversion of Z.
// If p is the point at infinity, x and y are set to 0.
func ToAffine(x, y *fp.Elem, p *JacobianPoint) {
	var zInv, zInvSq, zInvCubed fp.Elem
	fp.Invert(&zInv, &p.Z)
	fp.SqrMont(&zInvSq, &zInv)
	fp.MulMont(&zInvCubed, &zInvSq, &zInv)

	fp.MulMont(x, &p.X, &zInvSq)
	fp.MulMont(y, &p.Y, &zInvCubed)
}

// IsOnCurve returns true iff (x, y), in Montgomery form, satisfies
// `y^2 == x^3 - 3x + b (mod p)`.
func IsOnCurve(x, y *fp.Elem) bool {
	var lhs fp.Elem
	fp.SqrMont(&lhs, y)

	var rhs, x3, threeX fp.Elem
	fp.SqrMont(&rhs, x)
	fp.MulMont(&x3, &rhs, x)

	fp.AddModP(&threeX, x, x)
	fp.AddModP(&threeX, &threeX, x)

	fp.SubModP(&rhs, &x3, &threeX)
	fp.AddModP(&rhs, &rhs, &fp.B)

	return fp.Equal(&lhs, &rhs) == 1
}

// DecompressPoint recovers the y-coordinate (Montgomery form) matching
// x (Montgomery form) and the requested parity, reporting ok for
// whether x lies on the curve at all. p is prime and p mod 4 == 3, so
// the square root of a quadratic residue v is `v^((p+1)/4) mod p`.
func DecompressPoint(y, x *fp.Elem, yParity uint32) (ok bool) {
	var rhs, x3, threeX fp.Elem
	fp.SqrMont(&rhs, x)
	fp.MulMont(&x3, &rhs, x)
	fp.AddModP(&threeX, x, x)
	fp.AddModP(&threeX, &threeX, x)
	fp.SubModP(&rhs, &x3, &threeX)
	fp.AddModP(&rhs, &rhs, &fp.B)

	candidate := sqrtCandidate(&rhs)

	var check fp.Elem
	fp.SqrMont(&check, &candidate)
	if fp.Equal(&check, &rhs) != 1 {
		return false
	}

	var nonMontCandidate fp.Elem
	fp.FromMont(&nonMontCandidate, &candidate)
	parity := fp.IsOdd(&nonMontCandidate)

	fp.NegateModPIf(y, &candidate, parity^yParity)
	return true
}

// sqrtCandidate computes v^((p+1)/4) mod p in Montgomery form, the
// candidate square root of v for a p == 3 (mod 4) prime.
func sqrtCandidate(v *fp.Elem) fp.Elem {
	// (p+1)/4, little-endian limbs.
	exp := [8]uint32{0x00000000, 0x00000000, 0x40000000, 0x00000000, 0x00000000, 0x40000000, 0xc0000000, 0x3fffffff}

	result := fp.OneMontgomery()
	for bit := 255; bit >= 0; bit-- {
		limb := bit / 32
		off := uint(bit % 32)
		fp.SqrMont(&result, &result)
		if (exp[limb]>>off)&1 == 1 {
			fp.MulMont(&result, &result, v)
		}
	}
	return result
}
