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

package staking

import (
	"encoding/binary"
	"strings"

	"github.com/blinklabs-io/stakeopt/value"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"
)

// NominationPoolsPalletID is the pallet identifier used for pool account derivation
const NominationPoolsPalletID = "py/nopls"

type PoolAccountType uint8

const (
	PoolAccountBonded PoolAccountType = 0
	PoolAccountReward PoolAccountType = 1
)

// DerivePoolAccount returns the bonded or reward account of a nomination pool
func DerivePoolAccount(poolID uint32, kind PoolAccountType) AccountID {
	data := make([]byte, 0, AccountIDLength)
	data = append(data, "modl"...)
	data = append(data, NominationPoolsPalletID...)
	data = append(data, byte(kind))
	data = binary.LittleEndian.AppendUint32(data, poolID)
	for len(data) < AccountIDLength {
		data = append(data, 0)
	}
	return AccountID(blake2b.Sum256(data))
}

type PoolState string

const (
	PoolStateOpen       PoolState = "Open"
	PoolStateBlocked    PoolState = "Blocked"
	PoolStateDestroying PoolState = "Destroying"
)

type PoolRoles struct {
	Depositor AccountID
	Root      *AccountID
	Nominator *AccountID
	Bouncer   *AccountID
}

// BondedPool is the state of a nomination pool
type BondedPool struct {
	ID            uint32
	State         PoolState
	Points        uint256.Int
	MemberCounter uint32
	Roles         PoolRoles
	Name          string
}

// DecodeBondedPool decodes a NominationPools.BondedPools record. Unknown
// states are reported as open. A missing record returns nil
func DecodeBondedPool(id uint32, n value.Node) *BondedPool {
	if n == nil {
		return nil
	}
	ret := &BondedPool{
		ID:            id,
		State:         PoolStateOpen,
		Points:        balanceAt(n, "points"),
		MemberCounter: uint32At(n, "member_counter"),
	}
	if child, ok := value.At(n, "state"); ok {
		name, ok := value.VariantName(child)
		if !ok {
			name, _ = value.AsText(child)
		}
		switch PoolState(name) {
		case PoolStateBlocked, PoolStateDestroying:
			ret.State = PoolState(name)
		}
	}
	roles, ok := value.At(n, "roles")
	if !ok {
		return ret
	}
	if child, ok := value.At(roles, "depositor"); ok {
		ret.Roles.Depositor, _ = DecodeAccountID(child)
	}
	ret.Roles.Root = optionalAccount(roles, "root")
	ret.Roles.Nominator = optionalAccount(roles, "nominator")
	ret.Roles.Bouncer = optionalAccount(roles, "bouncer")
	return ret
}

func optionalAccount(n value.Node, name string) *AccountID {
	child, ok := value.At(n, name)
	if !ok {
		return nil
	}
	account, ok := DecodeAccountID(child)
	if !ok {
		return nil
	}
	return &account
}

// DecodePoolName decodes a NominationPools.Metadata record. Null bytes are
// removed and invalid UTF-8 is replaced
func DecodePoolName(n value.Node) string {
	if n == nil {
		return ""
	}
	raw := value.AsBytes(value.Unwrap(n), MaxPoolNameBytes)
	name := strings.ReplaceAll(string(raw), "\x00", "")
	return strings.ToValidUTF8(name, "�")
}
