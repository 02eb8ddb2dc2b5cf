// Package curve implements the NIST P-256 group law (Jacobian
// doubling/addition, affine conversion, on-curve and decompression
// checks) and the three scalar-multiplication ladders used by the
// root package: a constant-time variable-base ladder, a constant-time
// fixed-base ladder, and a variable-time dual-scalar verification
// ladder.
//
// All coordinates are carried in Montgomery form; conversion to and
// from the plain representation is the caller's responsibility (the
// root package does it at the API boundary).
package curve

import "gitlab.com/yawning/p256-voi/internal/fp"

// AffinePoint is a point in affine coordinates, Montgomery form.
type AffinePoint struct {
	X, Y fp.Elem
}

// JacobianPoint is a point in Jacobian coordinates `(X/Z^2, Y/Z^3)`,
// Montgomery form. Z == 0 represents the point at infinity.
type JacobianPoint struct {
	X, Y, Z fp.Elem
}

// Infinity returns the point at infinity in Jacobian coordinates.
func Infinity() JacobianPoint {
	return JacobianPoint{}
}

// IsInfinity returns 1 iff p is the point at infinity, 0 otherwise.
func (p *JacobianPoint) IsInfinity() uint32 {
	return fp.IsZero(&p.Z)
}

// FromAffine lifts an affine point into Jacobian coordinates with Z=1
// (Montgomery-domain 1).
func FromAffine(a *AffinePoint) JacobianPoint {
	return JacobianPoint{X: a.X, Y: a.Y, Z: fp.OneMontgomery()}
}
