// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// deterministicRand adapts a math/rand.Rand to io.Reader, for
// reproducible (non-cryptographic) test entropy.
type deterministicRand struct {
	rnd *rand.Rand
}

func (d *deterministicRand) Read(p []byte) (int, error) {
	return d.rnd.Read(p)
}

func newTestRand(seed int64) *deterministicRand {
	return &deterministicRand{rnd: rand.New(rand.NewSource(seed))}
}

func TestGenerateKeyRoundTrip(t *testing.T) {
	rnd := newTestRand(1)

	k, err := GenerateKey(rnd)
	require.NoError(t, err)

	k2, err := NewPrivateKey(k.Bytes())
	require.NoError(t, err)
	require.True(t, k.Equal(k2))
	require.True(t, k.PublicKey().Equal(k2.PublicKey()))
}

func TestNewPrivateKeyRejectsZero(t *testing.T) {
	var zero [32]byte
	_, err := NewPrivateKey(zero[:])
	require.Error(t, err)
}

func TestPublicKeyEncodingRoundTrip(t *testing.T) {
	rnd := newTestRand(2)
	k, err := GenerateKey(rnd)
	require.NoError(t, err)

	pub := k.PublicKey()
	decoded, err := NewPublicKey(pub.Bytes())
	require.NoError(t, err)
	require.True(t, pub.Equal(decoded))

	asn1Bytes := pub.ASN1Bytes()
	decoded2, err := ParseASN1PublicKey(asn1Bytes)
	require.NoError(t, err)
	require.True(t, pub.Equal(decoded2))
}

func TestSignVerify(t *testing.T) {
	rnd := newTestRand(3)
	k, err := GenerateKey(rnd)
	require.NoError(t, err)

	hash := make([]byte, 32)
	_, _ = rnd.Read(hash)

	sig, err := k.Sign(rnd, hash)
	require.NoError(t, err)
	require.True(t, k.PublicKey().Verify(hash, sig))

	tampered := bytes.Clone(sig)
	tampered[len(tampered)-1] ^= 0xff
	require.False(t, k.PublicKey().Verify(hash, tampered))
}

func TestSignProducesDistinctSignatures(t *testing.T) {
	rnd := newTestRand(4)
	k, err := GenerateKey(rnd)
	require.NoError(t, err)

	hash := make([]byte, 32)
	_, _ = rnd.Read(hash)

	sig1, err := k.Sign(rnd, hash)
	require.NoError(t, err)
	sig2, err := k.Sign(rnd, hash)
	require.NoError(t, err)

	require.NotEqual(t, sig1, sig2, "fresh entropy per signature should avoid a repeated nonce")
	require.True(t, k.PublicKey().Verify(hash, sig1))
	require.True(t, k.PublicKey().Verify(hash, sig2))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	rnd := newTestRand(5)
	k1, err := GenerateKey(rnd)
	require.NoError(t, err)
	k2, err := GenerateKey(rnd)
	require.NoError(t, err)

	hash := make([]byte, 32)
	_, _ = rnd.Read(hash)

	sig, err := k1.Sign(rnd, hash)
	require.NoError(t, err)

	require.False(t, k2.PublicKey().Verify(hash, sig))
}

func TestNewPublicKeyRejectsMalformed(t *testing.T) {
	_, err := NewPublicKey(nil)
	require.Error(t, err)

	_, err = NewPublicKey([]byte{0x04, 0x01, 0x02})
	require.Error(t, err)
}

func TestParseASN1SignatureRejectsTrailingData(t *testing.T) {
	rnd := newTestRand(6)
	k, err := GenerateKey(rnd)
	require.NoError(t, err)

	hash := make([]byte, 32)
	_, _ = rnd.Read(hash)

	sig, err := k.Sign(rnd, hash)
	require.NoError(t, err)

	_, _, err = ParseASN1Signature(append(sig, 0x00))
	require.Error(t, err)
}
