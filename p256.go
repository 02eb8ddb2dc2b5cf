// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package p256 implements constant-time elliptic-curve cryptography
// over the NIST P-256 (secp256r1) curve: ECDSA signing and
// verification, ECDH shared-secret derivation, public-key derivation,
// raw fixed-base/variable-base scalar multiplication, and the SEC1
// point encodings.
//
// Scalars and field coordinates are exposed as eight-limb,
// little-endian `[8]uint32` arrays (package Scalar and Coordinate),
// matching the convention used internally by the underlying
// internal/fp, internal/fn, and internal/curve packages. Octet-string
// encodings (hashes, SEC1 points, shared secrets) are big-endian, per
// SEC1.
//
// The core arithmetic is hand-written 32-bit-limb Go with no
// platform-specific assembly: every operation that touches a private
// scalar, nonce, or intermediate point runs in time independent of the
// secret values it touches (see each function's doc comment for the
// exact contract). Verify operates on public data and is variable
// time. This package does not supply a hash function or a CSPRNG:
// callers provide the message digest and any randomness (private
// scalars, ECDSA nonces) themselves.
package p256

import (
	"gitlab.com/yawning/p256-voi/internal/fn"
	"gitlab.com/yawning/p256-voi/internal/helpers"
)

// ScalarSize is the size, in bytes, of the big-endian encoding of a
// Scalar.
const ScalarSize = 32

// Scalar is an integer modulo the curve order `n`, represented as
// eight 32-bit limbs in little-endian limb order (limb 0 is the least
// significant). The zero value is the scalar zero, which every
// validated entry point in this package rejects as a private key or
// nonce (spec.md requires `1 <= v < n`).
type Scalar [8]uint32

// IsZero returns true iff s is zero.
func (s *Scalar) IsZero() bool {
	e := fn.Elem(*s)
	return fn.IsZero(&e) == 1
}

// InRange returns true iff `1 <= s < n`, the range the validated
// protocol entry points (Keygen, Sign, ScalarMultBase,
// ScalarMultGeneric) require of private scalars and nonces.
func (s *Scalar) InRange() bool {
	e := fn.Elem(*s)
	return fn.CheckRangeN(&e) && !s.IsZero()
}

// Zeroize overwrites s with zeros. Callers that hold a Scalar
// representing private key material or an ECDSA nonce should call
// this once the value is no longer needed.
func (s *Scalar) Zeroize() {
	a := (*[8]uint32)(s)
	helpers.Zeroize(a)
}

// Bytes returns the big-endian 32-byte encoding of s's limbs. No
// reduction mod n is performed: an s outside `[0, n)` is encoded as
// is (callers that need to reject out-of-range values use InRange
// first).
func (s *Scalar) Bytes() [32]byte {
	e := fn.Elem(*s)
	return fn.Bytes(&e)
}

// ScalarFromBytes decodes the big-endian 32-byte encoding b into a
// Scalar, reporting via ok whether the decoded value lies in the
// canonical range `[0, n)`. The decoded value is returned regardless,
// so that SignStep1/SignStep2 style splits that need the raw value
// before range-checking are possible, but reject ok == false before
// using the value for anything security sensitive.
func ScalarFromBytes(b *[32]byte) (s Scalar, ok bool) {
	var e fn.Elem
	ok = fn.SetBytes(&e, b)
	s = Scalar(e)
	return s, ok
}

func scalarToElem(s *Scalar) fn.Elem {
	return fn.Elem(*s)
}

func elemToScalar(e *fn.Elem) Scalar {
	return Scalar(*e)
}
