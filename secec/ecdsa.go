// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	csrand "crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/sha3"

	"gitlab.com/yawning/p256-voi"
)

const cShakeFuncName = "P256-VOI-ECDSA"

// Sign signs hash (which should be the result of hashing a larger
// message) using the private key k, and entropy from rand, returning
// the ASN.1 DER-encoded signature.
//
// The nonce is derived via the hedged construction described in
// "Deterministic ECDSA and EdDSA Signatures with Additional
// Randomness" (Pornin), mixing the private scalar, the digest, and
// fresh entropy from rand through cSHAKE256, so that a failure of
// rand alone (the "Debian" and "Sony" classes of RNG failures) does
// not by itself leak or repeat a nonce.
func (k *PrivateKey) Sign(rand io.Reader, hash []byte) ([]byte, error) {
	r, s, err := k.sign(rand, hash)
	if err != nil {
		return nil, err
	}
	return BuildASN1Signature(r, s)
}

// SignRaw is identical to Sign, except it returns the raw (r, s)
// components rather than an ASN.1 DER-encoded signature.
func (k *PrivateKey) SignRaw(rand io.Reader, hash []byte) (r, s p256.Scalar, err error) {
	return k.sign(rand, hash)
}

func (k *PrivateKey) sign(rand io.Reader, hash []byte) (r, s p256.Scalar, err error) {
	if rand == nil {
		rand = csrand.Reader
	}

	for i := 0; i < maxScalarResamples; i++ {
		nonce, nErr := hardenedNonce(rand, &k.scalar, hash)
		if nErr != nil {
			return p256.Scalar{}, p256.Scalar{}, nErr
		}

		var ok bool
		r, s, ok = p256.Sign(hash, &k.scalar, &nonce)
		nonce.Zeroize()
		if ok {
			return r, s, nil
		}
	}

	// Two independent ~2^-256 failures in a row, maxScalarResamples
	// times: unreachable outside of a broken entropy source.
	return p256.Scalar{}, p256.Scalar{}, errRejectionSampling
}

// hardenedNonce derives a candidate ECDSA nonce by mixing the private
// scalar d, the message digest hash, and fresh entropy from rand
// through cSHAKE256, following the "mitigate against a broken or
// adversarial RNG" construction: even if rand returns an attacker
// chosen or all-zero value, the private scalar folded into the input
// keeps the derived nonce secret and unpredictable to anyone who does
// not already know d.
func hardenedNonce(rand io.Reader, d *p256.Scalar, hash []byte) (p256.Scalar, error) {
	var entropy [32]byte
	if _, err := io.ReadFull(rand, entropy[:]); err != nil {
		return p256.Scalar{}, errors.Join(errEntropySource, err)
	}

	dBytes := d.Bytes()

	h := sha3.NewCShake256(nil, []byte(cShakeFuncName))
	_, _ = h.Write(dBytes[:])
	_, _ = h.Write(hash)
	_, _ = h.Write(entropy[:])

	var out [32]byte
	for i := range dBytes {
		dBytes[i] = 0
	}
	for i := range entropy {
		entropy[i] = 0
	}

	for i := 0; i < maxScalarResamples; i++ {
		if _, err := io.ReadFull(h, out[:]); err != nil {
			return p256.Scalar{}, err
		}
		nonce, ok := p256.ScalarFromBytes(&out)
		if ok && !nonce.IsZero() {
			return nonce, nil
		}
	}

	return p256.Scalar{}, errRejectionSampling
}

// Verify verifies the ASN.1 DER-encoded signature sig over hash,
// using the public key k. Verify accepts both canonical and
// non-canonical (s vs n-s) forms of a valid signature (ECDSA
// signatures are inherently malleable in s; callers that need
// uniqueness should compare ParseASN1Signature's s against n/2
// themselves, as this package exports no such check, or compare
// against a previously recorded signature).
func (k *PublicKey) Verify(hash, sig []byte) bool {
	r, s, err := ParseASN1Signature(sig)
	if err != nil {
		return false
	}
	return k.VerifyRaw(hash, &r, &s)
}

// VerifyRaw is identical to Verify, except it takes the raw (r, s)
// components rather than an ASN.1 DER-encoded signature.
func (k *PublicKey) VerifyRaw(hash []byte, r, s *p256.Scalar) bool {
	return p256.Verify(&k.x, &k.y, hash, r, s)
}
