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

package staking_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory(t *testing.T) {
	testDefs := []struct {
		err      error
		expected string
	}{
		{err: nil, expected: ""},
		{err: staking.DecodeError{Field: "nonce", Reason: "bad"}, expected: "decode"},
		{err: fmt.Errorf("wrapped: %w", staking.InvalidDataError{Reason: "x"}), expected: "invalid_data"},
		{err: fmt.Errorf("dial: %w", staking.ErrConnection), expected: "connection"},
		{err: staking.ErrRpc, expected: "rpc"},
		{err: errors.New("other"), expected: "unknown"},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, staking.Category(testDef.err))
	}
}

func TestDerivePoolAccount(t *testing.T) {
	bonded := staking.DerivePoolAccount(1, staking.PoolAccountBonded)
	reward := staking.DerivePoolAccount(1, staking.PoolAccountReward)
	other := staking.DerivePoolAccount(2, staking.PoolAccountBonded)
	assert.NotEqual(t, bonded, reward)
	assert.NotEqual(t, bonded, other)
	assert.Equal(t, bonded, staking.DerivePoolAccount(1, staking.PoolAccountBonded))
	assert.False(t, bonded.IsZero())
}

func TestDecodeBondedPool(t *testing.T) {
	tree := value.Named(
		value.F("commission", value.Named(value.F("current", value.None()))),
		value.F("member_counter", value.NewUint(31)),
		value.F("points", value.NewUint(9000)),
		value.F("roles", value.Named(
			value.F("depositor", value.Bytes(accountBytes(1))),
			value.F("root", value.Some(value.Bytes(accountBytes(2)))),
			value.F("nominator", value.None()),
		)),
		value.F("state", value.Variant{Name: "Blocked"}),
	)
	pool := staking.DecodeBondedPool(12, tree)
	require.NotNil(t, pool)
	assert.Equal(t, uint32(12), pool.ID)
	assert.Equal(t, staking.PoolStateBlocked, pool.State)
	assert.Equal(t, uint32(31), pool.MemberCounter)
	assert.Equal(t, uint64(9000), pool.Points.Uint64())
	assert.Equal(t, staking.AccountID(accountBytes(1)), pool.Roles.Depositor)
	require.NotNil(t, pool.Roles.Root)
	assert.Equal(t, staking.AccountID(accountBytes(2)), *pool.Roles.Root)
	assert.Nil(t, pool.Roles.Nominator)
	assert.Nil(t, pool.Roles.Bouncer)

	unknown := staking.DecodeBondedPool(1, value.Named(value.F("state", value.Text("Frozen"))))
	assert.Equal(t, staking.PoolStateOpen, unknown.State)
}

func TestDecodePoolName(t *testing.T) {
	name := staking.DecodePoolName(value.Tuple(value.Bytes([]byte("Pool\x00 One"))))
	assert.Equal(t, "Pool One", name)
	assert.Empty(t, staking.DecodePoolName(nil))

	long := make([]byte, staking.MaxPoolNameBytes+100)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, staking.DecodePoolName(value.Bytes(long)), staking.MaxPoolNameBytes)
}

func TestParseAccountID(t *testing.T) {
	fromSS58, err := staking.ParseAccountID("15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5")
	require.NoError(t, err)
	fromHex, err := staking.ParseAccountID("0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d")
	require.NoError(t, err)
	assert.Equal(t, fromHex, fromSS58)
	assert.Equal(t, "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d", fromSS58.String())
	assert.Equal(t, "HNZata7iMYWmk5RvZRTiAsSDhV8366zq2YGb3tLH5Upf74F", fromSS58.SS58(2))

	_, err = staking.ParseAccountID("not-an-address")
	assert.Error(t, err)
	_, err = staking.NewAccountID([]byte{1, 2})
	assert.Error(t, err)
}

func TestSnapshotClone(t *testing.T) {
	orig := &staking.AccountSnapshot{
		Account: staking.AccountID(accountBytes(5)),
		Nonce:   4,
		Balance: staking.AccountBalance{Free: *uint256.NewInt(10)},
		Ledger: &staking.StakingLedger{
			Active:    *uint256.NewInt(8),
			Unlocking: []staking.UnlockChunk{{Value: *uint256.NewInt(2), Era: 5}},
		},
		Nominations: &staking.NominatorInfo{
			Targets: []staking.AccountID{staking.AccountID(accountBytes(9))},
		},
	}
	clone, err := orig.Clone()
	require.NoError(t, err)
	assert.Equal(t, orig, clone)
	assert.True(t, clone.IsNominating())

	clone.Ledger.Unlocking[0].Era = 99
	clone.Nominations.Targets[0] = staking.AccountID{}
	assert.Equal(t, uint32(5), orig.Ledger.Unlocking[0].Era)
	assert.False(t, orig.Nominations.Targets[0].IsZero())
	assert.Nil(t, clone.Pool)
}
