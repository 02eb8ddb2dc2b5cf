// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	"encoding/asn1"
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"gitlab.com/yawning/p256-voi"
)

// oidPublicKeyEC is the `id-ecPublicKey` OID from RFC 5480.
var oidPublicKeyEC = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

// oidNamedCurveP256 is the `prime256v1` (a.k.a. secp256r1) OID from
// RFC 5480.
var oidNamedCurveP256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}

type pkixPublicKeyAlgorithm struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}

type pkixPublicKeyInfo struct {
	Algorithm pkixPublicKeyAlgorithm
	PublicKey asn1.BitString
}

// BuildASN1Signature serializes r and s into an ASN.1 DER-encoded
// ECDSA-Sig-Value, as specified in RFC 3279, Section 2.2.3.
func BuildASN1Signature(r, s p256.Scalar) ([]byte, error) {
	rBytes, sBytes := r.Bytes(), s.Bytes()
	rBig := new(big.Int).SetBytes(rBytes[:])
	sBig := new(big.Int).SetBytes(sBytes[:])

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(rBig)
		b.AddASN1BigInt(sBig)
	})
	return b.Bytes()
}

// ParseASN1Signature parses an ASN.1 DER-encoded ECDSA-Sig-Value,
// returning its r and s components. Both components MUST lie in
// `[1, n)`; ParseASN1Signature rejects out-of-range or malformed
// encodings.
func ParseASN1Signature(der []byte) (r, s p256.Scalar, err error) {
	input := cryptobyte.String(der)

	var inner cryptobyte.String
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) || !input.Empty() {
		return p256.Scalar{}, p256.Scalar{}, errors.New("p256/secec: invalid ASN.1 signature")
	}

	var rBig, sBig big.Int
	if !inner.ReadASN1Integer(&rBig) || !inner.ReadASN1Integer(&sBig) {
		return p256.Scalar{}, p256.Scalar{}, errors.New("p256/secec: invalid ASN.1 signature components")
	}
	if !inner.Empty() {
		return p256.Scalar{}, p256.Scalar{}, errors.New("p256/secec: trailing data in ASN.1 signature")
	}

	r, err = scalarFromCanonicalBigInt(&rBig)
	if err != nil {
		return p256.Scalar{}, p256.Scalar{}, err
	}
	s, err = scalarFromCanonicalBigInt(&sBig)
	if err != nil {
		return p256.Scalar{}, p256.Scalar{}, err
	}

	return r, s, nil
}

func scalarFromCanonicalBigInt(v *big.Int) (p256.Scalar, error) {
	if v.Sign() <= 0 || v.BitLen() > p256.ScalarSize*8 {
		return p256.Scalar{}, errInvalidScalar
	}

	var buf [p256.ScalarSize]byte
	v.FillBytes(buf[:])

	s, ok := p256.ScalarFromBytes(&buf)
	if !ok {
		return p256.Scalar{}, errInvalidScalar
	}
	return s, nil
}

// buildASN1PublicKey serializes k's public key as a DER-encoded
// SubjectPublicKeyInfo, as specified in SEC 1, Version 2.0, Appendix
// C.3 / RFC 5480.
func buildASN1PublicKey(k *PublicKey) []byte {
	info := pkixPublicKeyInfo{
		Algorithm: pkixPublicKeyAlgorithm{
			Algorithm:  oidPublicKeyEC,
			Parameters: oidNamedCurveP256,
		},
		PublicKey: asn1.BitString{
			Bytes:     k.pointBytes,
			BitLength: len(k.pointBytes) * 8,
		},
	}
	// Marshaling a fixed, well-formed struct of our own construction
	// cannot fail.
	der, err := asn1.Marshal(info)
	if err != nil {
		panic("p256/secec: failed to marshal public key: " + err.Error())
	}
	return der
}

// ParseASN1PublicKey parses a DER-encoded SubjectPublicKeyInfo and
// returns the corresponding PublicKey, rejecting any algorithm or
// curve other than id-ecPublicKey/prime256v1.
func ParseASN1PublicKey(der []byte) (*PublicKey, error) {
	var info pkixPublicKeyInfo
	rest, err := asn1.Unmarshal(der, &info)
	if err != nil {
		return nil, errors.New("p256/secec: invalid ASN.1 public key: " + err.Error())
	}
	if len(rest) != 0 {
		return nil, errors.New("p256/secec: trailing data in ASN.1 public key")
	}

	if !info.Algorithm.Algorithm.Equal(oidPublicKeyEC) {
		return nil, errors.New("p256/secec: unsupported public key algorithm")
	}
	if !info.Algorithm.Parameters.Equal(oidNamedCurveP256) {
		return nil, errors.New("p256/secec: unsupported curve")
	}

	return NewPublicKey(info.PublicKey.RightAlign())
}
