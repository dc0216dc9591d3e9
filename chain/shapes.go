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


package chain

import (
	"fmt"
	"math/big"

	"github.com/blinklabs-io/stakeopt/value"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// The types below mirror the runtime storage layouts. They are decoded with
// SCALE and converted into value trees with the field names the staking
// decoders look up

// option is a SCALE Option<T>
type option[T any] struct {
	present bool
	value   T
}

func some[T any](v T) option[T] {
	return option[T]{present: true, value: v}
}

func (o *option[T]) Decode(decoder scale.Decoder) error {
	flag, err := decoder.ReadOneByte()
	if err != nil {
		return err
	}
	switch flag {
	case 0:
		o.present = false
		return nil
	case 1:
		o.present = true
		return decoder.Decode(&o.value)
	default:
		return fmt.Errorf("invalid option flag %d", flag)
	}
}

func (o option[T]) Encode(encoder scale.Encoder) error {
	if !o.present {
		return encoder.PushByte(0)
	}
	if err := encoder.PushByte(1); err != nil {
		return err
	}
	return encoder.Encode(o.value)
}

type accountDataShape struct {
	Free     types.U128
	Reserved types.U128
	Frozen   types.U128
	Flags    types.U128
}

type accountInfoShape struct {
	Nonce       types.U32
	Consumers   types.U32
	Providers   types.U32
	Sufficients types.U32
	Data        accountDataShape
}

func (s *accountInfoShape) node() value.Node {
	return value.Named(
		value.F("nonce", value.NewUint(uint64(s.Nonce))),
		value.F("consumers", value.NewUint(uint64(s.Consumers))),
		value.F("providers", value.NewUint(uint64(s.Providers))),
		value.F("sufficients", value.NewUint(uint64(s.Sufficients))),
		value.F("data", value.Named(
			value.F("free", u128Node(s.Data.Free)),
			value.F("reserved", u128Node(s.Data.Reserved)),
			value.F("frozen", u128Node(s.Data.Frozen)),
			value.F("flags", u128Node(s.Data.Flags)),
		)),
	)
}

type unlockChunkShape struct {
	Value types.UCompact
	Era   types.UCompact
}

type ledgerShape struct {
	Stash                [32]byte
	Total                types.UCompact
	Active               types.UCompact
	Unlocking            []unlockChunkShape
	LegacyClaimedRewards []types.U32
}

func (s *ledgerShape) node() value.Node {
	unlocking := make(value.Sequence, 0, len(s.Unlocking))
	for _, chunk := range s.Unlocking {
		unlocking = append(unlocking, value.Named(
			value.F("value", compactNode(chunk.Value)),
			value.F("era", compactNode(chunk.Era)),
		))
	}
	claimed := make(value.Sequence, 0, len(s.LegacyClaimedRewards))
	for _, era := range s.LegacyClaimedRewards {
		claimed = append(claimed, value.NewUint(uint64(era)))
	}
	return value.Named(
		value.F("stash", accountNode(s.Stash)),
		value.F("total", compactNode(s.Total)),
		value.F("active", compactNode(s.Active)),
		value.F("unlocking", unlocking),
		value.F("legacy_claimed_rewards", claimed),
	)
}

type nominationsShape struct {
	Targets     [][32]byte
	SubmittedIn types.U32
	Suppressed  types.Bool
}

func (s *nominationsShape) node() value.Node {
	targets := make(value.Sequence, 0, len(s.Targets))
	for _, target := range s.Targets {
		targets = append(targets, accountNode(target))
	}
	return value.Named(
		value.F("targets", targets),
		value.F("submitted_in", value.NewUint(uint64(s.SubmittedIn))),
		value.F("suppressed", value.Bool(s.Suppressed)),
	)
}

type sessionValidatorsShape [][32]byte

func (s *sessionValidatorsShape) node() value.Node {
	ret := make(value.Sequence, 0, len(*s))
	for _, account := range *s {
		ret = append(ret, accountNode(account))
	}
	return ret
}

type eraAmountShape struct {
	Era    types.U32
	Amount types.U128
}

type poolMemberShape struct {
	PoolID                    types.U32
	Points                    types.U128
	LastRecordedRewardCounter types.U128
	UnbondingEras             []eraAmountShape
}

func (s *poolMemberShape) node() value.Node {
	unbonding := make(value.Sequence, 0, len(s.UnbondingEras))
	for _, pair := range s.UnbondingEras {
		unbonding = append(unbonding, value.Tuple(
			value.NewUint(uint64(pair.Era)),
			u128Node(pair.Amount),
		))
	}
	return value.Named(
		value.F("pool_id", value.NewUint(uint64(s.PoolID))),
		value.F("points", u128Node(s.Points)),
		value.F("last_recorded_reward_counter", u128Node(s.LastRecordedRewardCounter)),
		value.F("unbonding_eras", unbonding),
	)
}

type activeEraShape struct {
	Index types.U32
	Start option[types.U64]
}

func (s *activeEraShape) node() value.Node {
	return value.Named(
		value.F("index", value.NewUint(uint64(s.Index))),
		value.F("start", optionNode(s.Start, func(v types.U64) value.Node {
			return value.NewUint(uint64(v))
		})),
	)
}

type validatorPrefsShape struct {
	Commission types.UCompact
	Blocked    types.Bool
}

func (s *validatorPrefsShape) node() value.Node {
	return value.Named(
		value.F("commission", compactNode(s.Commission)),
		value.F("blocked", value.Bool(s.Blocked)),
	)
}

type exposureOverviewShape struct {
	Total          types.UCompact
	Own            types.UCompact
	NominatorCount types.U32
	PageCount      types.U32
}

func (s *exposureOverviewShape) node() value.Node {
	return value.Named(
		value.F("total", compactNode(s.Total)),
		value.F("own", compactNode(s.Own)),
		value.F("nominator_count", value.NewUint(uint64(s.NominatorCount))),
		value.F("page_count", value.NewUint(uint64(s.PageCount))),
	)
}

type accountPointsShape struct {
	Account [32]byte
	Points  types.U32
}

type eraRewardPointsShape struct {
	Total      types.U32
	Individual []accountPointsShape
}

func (s *eraRewardPointsShape) node() value.Node {
	individual := make(value.Sequence, 0, len(s.Individual))
	for _, entry := range s.Individual {
		individual = append(individual, value.Tuple(
			accountNode(entry.Account),
			value.NewUint(uint64(entry.Points)),
		))
	}
	return value.Named(
		value.F("total", value.NewUint(uint64(s.Total))),
		value.F("individual", individual),
	)
}

type balanceShape struct {
	Value types.U128
}

func (s *balanceShape) node() value.Node {
	return u128Node(s.Value)
}

type poolMetadataShape struct {
	Name types.Bytes
}

func (s *poolMetadataShape) node() value.Node {
	return value.Bytes(s.Name)
}

type commissionCurrentShape struct {
	Rate  types.U32
	Payee [32]byte
}

type commissionChangeRateShape struct {
	MaxIncrease types.U32
	MinDelay    types.U32
}

// claimPermissionShape is CommissionClaimPermission: Permissionless or Account(AccountId)
type claimPermissionShape struct {
	account option[[32]byte]
}

func (s *claimPermissionShape) Decode(decoder scale.Decoder) error {
	idx, err := decoder.ReadOneByte()
	if err != nil {
		return err
	}
	switch idx {
	case 0:
		s.account = option[[32]byte]{}
		return nil
	case 1:
		s.account.present = true
		return decoder.Decode(&s.account.value)
	default:
		return fmt.Errorf("invalid claim permission variant %d", idx)
	}
}

func (s claimPermissionShape) Encode(encoder scale.Encoder) error {
	if !s.account.present {
		return encoder.PushByte(0)
	}
	if err := encoder.PushByte(1); err != nil {
		return err
	}
	return encoder.Encode(s.account.value)
}

type commissionShape struct {
	Current         option[commissionCurrentShape]
	Max             option[types.U32]
	ChangeRate      option[commissionChangeRateShape]
	ThrottleFrom    option[types.U32]
	ClaimPermission option[claimPermissionShape]
}

type poolRolesShape struct {
	Depositor [32]byte
	Root      option[[32]byte]
	Nominator option[[32]byte]
	Bouncer   option[[32]byte]
}

type bondedPoolShape struct {
	Commission    commissionShape
	MemberCounter types.U32
	Points        types.U128
	Roles         poolRolesShape
	State         types.U8
}

var poolStateNames = []string{"Open", "Blocked", "Destroying"}

func (s *bondedPoolShape) node() value.Node {
	state := value.Variant{Name: fmt.Sprintf("Unknown%d", s.State)}
	if int(s.State) < len(poolStateNames) {
		state.Name = poolStateNames[s.State]
	}
	commission := value.Named(
		value.F("current", optionNode(s.Commission.Current, func(c commissionCurrentShape) value.Node {
			return value.Tuple(value.NewUint(uint64(c.Rate)), accountNode(c.Payee))
		})),
		value.F("max", optionNode(s.Commission.Max, u32Node)),
	)
	return value.Named(
		value.F("commission", commission),
		value.F("member_counter", value.NewUint(uint64(s.MemberCounter))),
		value.F("points", u128Node(s.Points)),
		value.F("roles", value.Named(
			value.F("depositor", accountNode(s.Roles.Depositor)),
			value.F("root", optionNode(s.Roles.Root, accountNode)),
			value.F("nominator", optionNode(s.Roles.Nominator, accountNode)),
			value.F("bouncer", optionNode(s.Roles.Bouncer, accountNode)),
		)),
		value.F("state", state),
	)
}

func bigNode(v *big.Int) value.Node {
	ret, ok := value.NewUintFromBig(v)
	if !ok {
		return value.NewUint(0)
	}
	return ret
}

func u128Node(v types.U128) value.Node {
	return bigNode(v.Int)
}

func compactNode(v types.UCompact) value.Node {
	return bigNode((*big.Int)(&v))
}

func u32Node(v types.U32) value.Node {
	return value.NewUint(uint64(v))
}

func accountNode(account [32]byte) value.Node {
	return value.Bytes(account[:])
}

func optionNode[T any](o option[T], fn func(T) value.Node) value.Node {
	if !o.present {
		return value.None()
	}
	return value.Some(fn(o.value))
}
