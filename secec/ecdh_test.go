// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package secec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestECDHAgreement(t *testing.T) {
	rnd := newTestRand(10)

	alice, err := GenerateKey(rnd)
	require.NoError(t, err)
	bob, err := GenerateKey(rnd)
	require.NoError(t, err)

	sharedAlice, err := alice.ECDH(bob.PublicKey())
	require.NoError(t, err)
	sharedBob, err := bob.ECDH(alice.PublicKey())
	require.NoError(t, err)

	require.Equal(t, sharedAlice, sharedBob)
}

func TestECDHDistinctPeers(t *testing.T) {
	rnd := newTestRand(11)

	alice, err := GenerateKey(rnd)
	require.NoError(t, err)
	bob, err := GenerateKey(rnd)
	require.NoError(t, err)
	carol, err := GenerateKey(rnd)
	require.NoError(t, err)

	sharedBob, err := alice.ECDH(bob.PublicKey())
	require.NoError(t, err)
	sharedCarol, err := alice.ECDH(carol.PublicKey())
	require.NoError(t, err)

	require.NotEqual(t, sharedBob, sharedCarol)
}
