// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package secec implements the common primitives on top of P-256,
// with an API that is close to the runtime library's `crypto/ecdsa`
// and `crypto/ecdh` packages.
package secec

import (
	csrand "crypto/rand"
	"crypto"
	"errors"
	"fmt"
	"io"

	"gitlab.com/yawning/p256-voi"
	"gitlab.com/yawning/p256-voi/internal/disalloweq"
)

const maxScalarResamples = 8

var (
	errEntropySource     = errors.New("p256/secec: entropy source failure")
	errRejectionSampling = errors.New("p256/secec: failed rejection sampling")
	errInvalidScalar     = errors.New("p256/secec: invalid scalar")
)

// PrivateKey is a P-256 private key.
type PrivateKey struct {
	_ disalloweq.DisallowEqual

	scalar    p256.Scalar // INVARIANT: Always [1,n)
	publicKey *PublicKey
}

// Bytes returns a copy of the encoding of the private key.
func (k *PrivateKey) Bytes() []byte {
	b := k.scalar.Bytes()
	return b[:]
}

// Scalar returns a copy of the scalar underlying k.
func (k *PrivateKey) Scalar() p256.Scalar {
	return k.scalar
}

// ECDH performs an ECDH exchange and returns the shared secret as
// specified in SEC 1, Version 2.0, Section 3.3.1: the x-coordinate of
// `k*remote`, encoded per Section 2.3.5.
func (k *PrivateKey) ECDH(remote *PublicKey) ([]byte, error) {
	shared, ok := p256.ECDH(&k.scalar, &remote.x, &remote.y)
	if !ok {
		// Unreachable: remote is already known to be a valid,
		// on-curve public key, and k.scalar is already in range.
		return nil, errors.New("p256/secec: ECDH failed")
	}
	return shared[:], nil
}

// Equal returns whether x represents the same private key as k.
func (k *PrivateKey) Equal(x crypto.PrivateKey) bool {
	other, ok := x.(*PrivateKey)
	if !ok {
		return false
	}
	return k.scalar == other.scalar
}

// Public returns the crypto.PublicKey corresponding to k.
func (k *PrivateKey) Public() crypto.PublicKey {
	return k.publicKey
}

// PublicKey returns the public key corresponding to k.
func (k *PrivateKey) PublicKey() *PublicKey {
	return k.publicKey
}

// PublicKey is a P-256 public key.
type PublicKey struct {
	_ disalloweq.DisallowEqual

	x, y       p256.Coordinate // INVARIANT: On the curve.
	pointBytes []byte          // Uncompressed SEC1 encoding.
}

// Bytes returns a copy of the uncompressed SEC1 encoding of the public
// key.
func (k *PublicKey) Bytes() []byte {
	out := make([]byte, len(k.pointBytes))
	copy(out, k.pointBytes)
	return out
}

// ASN1Bytes returns a copy of the ASN.1 encoding of the public key, as
// specified in SEC 1, Version 2.0, Appendix C.3.
func (k *PublicKey) ASN1Bytes() []byte {
	return buildASN1PublicKey(k)
}

// Equal returns whether x represents the same public key as k.
func (k *PublicKey) Equal(x crypto.PublicKey) bool {
	other, ok := x.(*PublicKey)
	if !ok {
		return false
	}
	return k.x == other.x && k.y == other.y
}

// IsYOdd returns true iff the y-coordinate of the public key is odd.
func (k *PublicKey) IsYOdd() bool {
	return k.pointBytes[p256.UncompressedPointSize-1]&1 == 1
}

// GenerateKey generates a new PrivateKey using entropy from rand.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	s, err := sampleRandomScalar(rand)
	if err != nil {
		return nil, err
	}
	return newPrivateKeyFromScalar(s)
}

// NewPrivateKey checks that key is a valid, non-zero, canonically
// encoded private scalar and returns a PrivateKey.
func NewPrivateKey(key []byte) (*PrivateKey, error) {
	if len(key) != p256.ScalarSize {
		return nil, errors.New("p256/secec: invalid private key size")
	}

	var buf [p256.ScalarSize]byte
	copy(buf[:], key)
	s, ok := p256.ScalarFromBytes(&buf)
	if !ok || s.IsZero() {
		return nil, errors.New("p256/secec: invalid private key")
	}

	return newPrivateKeyFromScalar(s)
}

func newPrivateKeyFromScalar(s p256.Scalar) (*PrivateKey, error) {
	qx, qy, ok := p256.Keygen(&s)
	if !ok {
		return nil, errors.New("p256/secec: invalid private key")
	}

	pub := &PublicKey{x: qx, y: qy}
	pt, err := p256.NewPoint(&qx, &qy)
	if err != nil {
		// Unreachable: Keygen always returns an on-curve point.
		return nil, err
	}
	pub.pointBytes = pt.Uncompressed()

	return &PrivateKey{scalar: s, publicKey: pub}, nil
}

// NewPublicKey checks that key is a valid SEC1-encoded point (any of
// the uncompressed, compressed, or hybrid encodings) and returns a
// PublicKey.
func NewPublicKey(key []byte) (*PublicKey, error) {
	pt, err := p256.NewPointFromOctetString(key)
	if err != nil {
		return nil, fmt.Errorf("p256/secec: invalid public key: %w", err)
	}

	x, y := pt.XY()
	return &PublicKey{x: x, y: y, pointBytes: pt.Uncompressed()}, nil
}

func sampleRandomScalar(rand io.Reader) (p256.Scalar, error) {
	if rand == nil {
		rand = csrand.Reader
	}

	var buf [p256.ScalarSize]byte
	for i := 0; i < maxScalarResamples; i++ {
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return p256.Scalar{}, errors.Join(errEntropySource, err)
		}

		s, ok := p256.ScalarFromBytes(&buf)
		if ok && !s.IsZero() {
			return s, nil
		}
	}

	// Rejection sampling failing maxScalarResamples times in a row
	// happens with probability on the order of 2^-256 for a sound
	// entropy source; this path only fires when rand is broken.
	return p256.Scalar{}, errRejectionSampling
}
