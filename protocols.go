// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package p256

import (
	"gitlab.com/yawning/p256-voi/internal/curve"
	"gitlab.com/yawning/p256-voi/internal/fn"
	"gitlab.com/yawning/p256-voi/internal/fp"
	"gitlab.com/yawning/p256-voi/internal/helpers"
)

// hashToScalar computes `z`, the leftmost 256 bits of hash (big-endian),
// as a (possibly out-of-range, callers reduce or compare directly as
// needed) scalar. Digests shorter than 32 bytes are treated as though
// left-padded with zero bytes to 32 bytes (i.e. interpreted directly
// as a big-endian integer); digests longer than 32 bytes are truncated
// to their leftmost 32 bytes. This matches the non-secret, public
// nature of a message digest: no constant-time discipline is required
// here.
func hashToScalar(hash []byte) fn.Elem {
	if len(hash) > ScalarSize {
		hash = hash[:ScalarSize]
	}

	var buf [ScalarSize]byte
	copy(buf[ScalarSize-len(hash):], hash)

	limbs := helpers.BytesToLimbsBE(&buf)
	return fn.Elem(limbs)
}

// Keygen derives the public key `Q = d*G` corresponding to the private
// scalar d, via the constant-time fixed-base ladder. d MUST satisfy
// `1 <= d < n`; Keygen reports ok == false and clears the outputs
// otherwise.
func Keygen(d *Scalar) (Qx, Qy Coordinate, ok bool) {
	if !d.InRange() {
		return Coordinate{}, Coordinate{}, false
	}

	dElem := scalarToElem(d)

	var xMont, yMont fp.Elem
	curve.ScalarBaseMult(&xMont, &yMont, &dElem)
	fn.Zeroize(&dElem)

	return montToCoord(&xMont), montToCoord(&yMont), true
}

// SignPrecomp carries the per-signature state (`r` and `k^-1 mod n`)
// computed from a nonce by SignStep1, consumed by SignStep2 to finish
// a signature. The split exists because step 1 (the scalar
// multiplication and modular inversion) accounts for essentially all
// of the time a signing operation takes and can be precomputed before
// the message to sign is known. SignPrecomp MUST be zeroized once
// consumed; SignStep2 does this regardless of outcome, and callers
// that abandon a SignPrecomp without calling SignStep2 must call
// Zeroize themselves.
type SignPrecomp struct {
	r    fn.Elem
	kInv fn.Elem
}

// Zeroize overwrites the secret state held by pc with zeros.
func (pc *SignPrecomp) Zeroize() {
	fn.Zeroize(&pc.r)
	fn.Zeroize(&pc.kInv)
}

// SignStep1 computes the nonce-dependent half of an ECDSA signature:
// `r`, the x-coordinate of `k*G` reduced mod n, and `k^-1 mod n`
// (via the constant-time Bernstein-Yang inverter). k MUST satisfy
// `1 <= k < n`; SignStep1 fails if that does not hold, or if the
// resulting r is zero (probability `~2^-256`, meaning a fresh k is
// required).
func SignStep1(k *Scalar) (pc *SignPrecomp, ok bool) {
	if !k.InRange() {
		return nil, false
	}

	kElem := scalarToElem(k)

	var xMont, yMont fp.Elem
	curve.ScalarBaseMult(&xMont, &yMont, &kElem)

	var xNonMont fp.Elem
	fp.FromMont(&xNonMont, &xMont)
	r := fn.Elem(xNonMont)
	if !fn.CheckRangeN(&r) {
		// x is in [0, p); p > n, so one conditional subtraction of n
		// suffices to fold it into range before the zero check below.
		n := fn.N()
		var reduced fn.Elem
		fn.SubModN(&reduced, &r, &n)
		r = reduced
	}
	if fn.IsZero(&r) == 1 {
		fp.Zeroize(&xMont)
		fp.Zeroize(&yMont)
		kElem = fn.Elem{}
		return nil, false
	}

	var kInv fn.Elem
	fn.Invert(&kInv, &kElem)

	fp.Zeroize(&xMont)
	fp.Zeroize(&yMont)
	fn.Zeroize(&kElem)

	return &SignPrecomp{r: r, kInv: kInv}, true
}

// SignStep2 completes an ECDSA signature given the message digest hash,
// the private key d, and the precomputed state pc from SignStep1:
// `s = k^-1 * (z + r*d) mod n`. pc is zeroized on every exit path,
// regardless of outcome. SignStep2 fails if pc is nil, if pc's r or
// k^-1 is zero or out of range, if d is not in `[1, n)`, or if the
// computed s is zero (probability `~2^-256`); a fresh (k, SignStep1)
// pair is required to retry.
func SignStep2(hash []byte, d *Scalar, pc *SignPrecomp) (r, s Scalar, ok bool) {
	if pc == nil {
		return Scalar{}, Scalar{}, false
	}
	defer pc.Zeroize()

	if !fn.CheckRangeN(&pc.r) || fn.IsZero(&pc.r) == 1 {
		return Scalar{}, Scalar{}, false
	}
	if !fn.CheckRangeN(&pc.kInv) || fn.IsZero(&pc.kInv) == 1 {
		return Scalar{}, Scalar{}, false
	}
	if !d.InRange() {
		return Scalar{}, Scalar{}, false
	}

	dElem := scalarToElem(d)
	z := hashToScalar(hash)

	var rd, zPlusRD fn.Elem
	fn.MulModN(&rd, &pc.r, &dElem)
	fn.AddModN(&zPlusRD, &z, &rd)

	var sElem fn.Elem
	fn.MulModN(&sElem, &pc.kInv, &zPlusRD)

	dElem = fn.Elem{}

	if fn.IsZero(&sElem) == 1 {
		return Scalar{}, Scalar{}, false
	}

	return elemToScalar(&pc.r), elemToScalar(&sElem), true
}

// Sign computes an ECDSA signature `(r, s)` over hash with private key
// d and nonce k, via SignStep1 followed by SignStep2. k MUST satisfy
// `1 <= k < n`; Sign fails if that does not hold, or if either
// intermediate step produces a zero r or s (a fresh k is required to
// retry).
func Sign(hash []byte, d, k *Scalar) (r, s Scalar, ok bool) {
	pc, ok := SignStep1(k)
	if !ok {
		return Scalar{}, Scalar{}, false
	}
	return SignStep2(hash, d, pc)
}

// Verify reports whether (r, s) is a valid ECDSA signature over hash
// under the public key (Qx, Qy). Verify operates entirely on public
// data and is variable time. Both (r, s) and (r, n-s) are accepted for
// a given valid signature (spec.md does not mandate low-s
// normalization); callers that need low-s uniqueness enforce it
// themselves (this package exports no low-s check).
func Verify(Qx, Qy *Coordinate, hash []byte, r, s *Scalar) bool {
	if !r.InRange() || !s.InRange() {
		return false
	}
	if !Qx.InRange() || !Qy.InRange() {
		return false
	}

	xMont, yMont := coordToMont(Qx), coordToMont(Qy)
	if !curve.IsOnCurve(&xMont, &yMont) {
		return false
	}

	rElem, sElem := scalarToElem(r), scalarToElem(s)

	var w fn.Elem
	fn.InvertVartime(&w, &sElem)

	z := hashToScalar(hash)

	var u1, u2 fn.Elem
	fn.MulModN(&u1, &z, &w)
	fn.MulModN(&u2, &rElem, &w)

	cp := curve.DualScalarMultVartime(&u1, &u2, &xMont, &yMont)

	return curve.VerifyLastStep(&rElem, &cp)
}

// ECDH computes the x-coordinate of `d*Q`, where Q is the peer's public
// key (Qx, Qy), and returns it as a 32-byte big-endian octet string,
// the shared secret as specified in SEC1, Version 2.0, Section 3.3.1.
//
// Unlike ScalarMultGeneric, ECDH does NOT check that d lies in
// `[1, n)` (see spec.md §9's documented open question): callers are
// trusted with their own private key, matching the original engine's
// `p256_ecdh_calc_shared_secret`. Callers accepting untrusted private
// scalars should call Scalar.InRange themselves first.
func ECDH(d *Scalar, Qx, Qy *Coordinate) (shared [32]byte, ok bool) {
	if !Qx.InRange() || !Qy.InRange() {
		return [32]byte{}, false
	}

	xMont, yMont := coordToMont(Qx), coordToMont(Qy)
	if !curve.IsOnCurve(&xMont, &yMont) {
		return [32]byte{}, false
	}

	dElem := scalarToElem(d)

	var outXMont, outYMont fp.Elem
	curve.ScalarMult(&outXMont, &outYMont, &xMont, &yMont, &dElem)
	fn.Zeroize(&dElem)

	coord := montToCoord(&outXMont)
	return coord.Bytes(), true
}

// ScalarMultBase computes `d*G` via the constant-time fixed-base
// ladder. d MUST satisfy `1 <= d < n`.
func ScalarMultBase(d *Scalar) (Rx, Ry Coordinate, ok bool) {
	return Keygen(d)
}

// ScalarMultGeneric computes `d*P` via the constant-time variable-base
// ladder, where P is the affine point (Px, Py). d MUST satisfy
// `1 <= d < n`, and P MUST lie on the curve.
func ScalarMultGeneric(d *Scalar, Px, Py *Coordinate) (Rx, Ry Coordinate, ok bool) {
	if !d.InRange() {
		return Coordinate{}, Coordinate{}, false
	}
	if !Px.InRange() || !Py.InRange() {
		return Coordinate{}, Coordinate{}, false
	}

	xMont, yMont := coordToMont(Px), coordToMont(Py)
	if !curve.IsOnCurve(&xMont, &yMont) {
		return Coordinate{}, Coordinate{}, false
	}

	dElem := scalarToElem(d)

	var outXMont, outYMont fp.Elem
	curve.ScalarMult(&outXMont, &outYMont, &xMont, &yMont, &dElem)
	fn.Zeroize(&dElem)

	return montToCoord(&outXMont), montToCoord(&outYMont), true
}

// ConvertEndianness reverses the byte order of b in place and returns
// it, converting between the engine's internal little-endian limb
// convention and SEC1's big-endian octet strings (or vice versa).
func ConvertEndianness(b []byte) []byte {
	return helpers.ReverseBytes(b)
}
