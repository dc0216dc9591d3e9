// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package store_test

import (
	"testing"
	"time"

	"github.com/blinklabs-io/stakeopt/internal/test"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/store"
	"github.com/blinklabs-io/stakeopt/tx"
	"github.com/blinklabs-io/stakeopt/yield"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	account   = staking.AccountID(test.FilledBytes(0x01, 32))
	validator = staking.AccountID(test.FilledBytes(0x02, 32))
)

func openStore(t *testing.T, network string) *store.Store {
	t.Helper()
	s, err := store.Open("", network, store.WithInMemory())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func balance(v uint64) uint256.Int {
	return *uint256.NewInt(v)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openStore(t, "polkadot")
	large, err := uint256.FromDecimal("340282366920938463463374607431768211455")
	require.NoError(t, err)
	snap := &staking.AccountSnapshot{
		Account: account,
		Balance: staking.AccountBalance{
			Free:     *large,
			Reserved: balance(10),
			Frozen:   balance(2_000),
		},
		Nonce: 42,
		Ledger: &staking.StakingLedger{
			Stash:  account,
			Total:  balance(2_000),
			Active: balance(1_500),
			Unlocking: []staking.UnlockChunk{
				{Value: balance(500), Era: 1210},
			},
		},
		Nominations: &staking.NominatorInfo{
			Targets:     []staking.AccountID{validator},
			SubmittedIn: 1200,
			Suppressed:  true,
		},
		Pool: &staking.PoolMembership{
			PoolID: 9,
			Points: balance(300),
			UnbondingEras: []staking.UnbondingEra{
				{Era: 1215, Amount: balance(25)},
			},
		},
		ActiveEra: 1205,
	}
	takenAt := time.UnixMilli(1_700_000_000_123)
	require.NoError(t, s.PutSnapshot(snap, takenAt))

	got, gotAt, err := s.Snapshot(account)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.True(t, takenAt.Equal(gotAt))
}

func TestSnapshotWithoutStaking(t *testing.T) {
	s := openStore(t, "polkadot")
	snap := &staking.AccountSnapshot{
		Account: account,
		Balance: staking.AccountBalance{Free: balance(1)},
	}
	require.NoError(t, s.PutSnapshot(snap, time.UnixMilli(0)))
	got, _, err := s.Snapshot(account)
	require.NoError(t, err)
	assert.Nil(t, got.Ledger)
	assert.Nil(t, got.Nominations)
	assert.Nil(t, got.Pool)
	assert.False(t, got.IsNominating())
}

func TestSnapshotNotFound(t *testing.T) {
	s := openStore(t, "polkadot")
	_, _, err := s.Snapshot(account)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestValidatorSamples(t *testing.T) {
	s := openStore(t, "kusama")
	samples := []yield.ValidatorEraSample{
		{Era: 300, Active: true, TotalStake: balance(1_000), NominatorCount: 2, Reward: balance(10), Commission: 0.05, Points: 40},
		{Era: 2, Active: false},
		{Era: 256, Active: true, TotalStake: balance(900), Reward: balance(9), Commission: 1, Blocked: true, Points: 20},
	}
	require.NoError(t, s.PutValidatorSamples(validator, samples))
	require.NoError(t, s.PutValidatorSamples(account, samples[:1]))

	got, err := s.ValidatorSamples(validator)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uint32{2, 256, 300}, []uint32{got[0].Era, got[1].Era, got[2].Era})
	assert.False(t, got[0].Active)
	assert.True(t, got[0].TotalStake.IsZero())
	assert.True(t, got[1].Blocked)
	assert.InDelta(t, 1.0, got[1].Commission, 1e-9)
	assert.Equal(t, uint64(1_000), got[2].TotalStake.Uint64())
	assert.Equal(t, uint64(10), got[2].Reward.Uint64())
	assert.Equal(t, uint32(2), got[2].NominatorCount)
	assert.InDelta(t, 0.05, got[2].Commission, 1e-9)
	assert.Equal(t, uint32(40), got[2].Points)

	missing, err := s.MissingEras(validator, []uint32{1, 2, 3, 256, 301})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 3, 301}, missing)
}

func TestNetworksAreSeparate(t *testing.T) {
	s := openStore(t, "polkadot")
	require.NoError(t, s.PutValidatorSamples(validator, []yield.ValidatorEraSample{{Era: 1}}))
	got, err := s.ValidatorSamples(account)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTreeRoundTrip(t *testing.T) {
	s := openStore(t, "westend")
	tree := test.AccountInfoNode(3, 1_000)
	require.NoError(t, s.PutTree("System.Account/alice", tree))
	got, err := s.Tree("System.Account/alice")
	require.NoError(t, err)
	nonce, err := staking.DecodeNonce(got)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), nonce)
	accountBalance := staking.DecodeAccountBalance(got)
	assert.Equal(t, uint64(1_000), accountBalance.Free.Uint64())

	_, err = s.Tree("System.Account/bob")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPendingPayload(t *testing.T) {
	s := openStore(t, "westend")
	testDefs := []struct {
		name string
		era  tx.Era
	}{
		{name: "mortal", era: tx.Mortal(64, 10)},
		{name: "immortal", era: tx.Immortal()},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			payload := &tx.UnsignedPayload{
				CallData:    test.DecodeHexString("0706"),
				Description: "Stop nominating",
				SpecVersion: 1_002_000,
				TxVersion:   26,
				Nonce:       7,
				Era:         testDef.era,
				Extensions:  tx.Extensions{CheckMetadataHash: true},
			}
			copy(payload.GenesisHash[:], test.FilledBytes(0xaa, tx.HashSize))
			copy(payload.BlockHash[:], test.FilledBytes(0xbb, tx.HashSize))
			require.NoError(t, s.PutPending(account, payload))
			got, err := s.Pending(account)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
			assert.Equal(t, payload.SigningPayload(), got.SigningPayload())
		})
	}
	require.NoError(t, s.DeletePending(account))
	_, err := s.Pending(account)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
