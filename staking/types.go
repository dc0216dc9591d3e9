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

// Package staking holds the typed staking domain model and the decoders that
// extract it from untyped chain value trees.
//
// Decoders only look up the fields they need. A missing optional field
// resolves to its zero value, and collections that look unbounded on chain
// are walked up to a fixed cap.
package staking

import (
	"github.com/holiman/uint256"
)

// Iteration caps for on-chain collections
const (
	MaxUnlockingChunks     = 32
	MaxUnbondingEras       = 32
	MaxNominations         = 16
	MaxPoolNameBytes       = 1024
	MaxRewardPointEntries  = 2000
	MaxSessionValidators   = 2000
	MaxValidatorCandidates = 4096
	MaxPools               = 4096
)

// PerbillDenominator is the parts-per-billion value of 100%
const PerbillDenominator = 1_000_000_000

// AccountBalance is the free, reserved and frozen funds of an account
type AccountBalance struct {
	Free     uint256.Int
	Reserved uint256.Int
	Frozen   uint256.Int
}

// Transferable returns free funds minus the frozen amount, saturating at zero
func (b AccountBalance) Transferable() uint256.Int {
	var ret uint256.Int
	if b.Frozen.Gt(&b.Free) {
		return ret
	}
	ret.Sub(&b.Free, &b.Frozen)
	return ret
}

// UnlockChunk is a pending withdrawal that becomes available at Era. Value is never zero
type UnlockChunk struct {
	Value uint256.Int
	Era   uint32
}

// StakingLedger is the bonded stake record of a stash account
type StakingLedger struct {
	Stash     AccountID
	Total     uint256.Int
	Active    uint256.Int
	Unlocking []UnlockChunk
}

// Withdrawable returns the sum of unlocking chunks whose era has been reached
func (l StakingLedger) Withdrawable(currentEra uint32) uint256.Int {
	var ret uint256.Int
	for _, chunk := range l.Unlocking {
		if chunk.Era <= currentEra {
			ret.Add(&ret, &chunk.Value)
		}
	}
	return ret
}

// Unbonding returns the sum of all unlocking chunks
func (l StakingLedger) Unbonding() uint256.Int {
	var ret uint256.Int
	for _, chunk := range l.Unlocking {
		ret.Add(&ret, &chunk.Value)
	}
	return ret
}

// NominatorInfo is the current nomination of an account
type NominatorInfo struct {
	Targets     []AccountID
	SubmittedIn uint32
	Suppressed  bool
}

// UnbondingEra is a pool member's pending withdrawal. Amount is never zero
type UnbondingEra struct {
	Era    uint32
	Amount uint256.Int
}

// PoolMembership is an account's stake in a nomination pool
type PoolMembership struct {
	PoolID        uint32
	Points        uint256.Int
	UnbondingEras []UnbondingEra
}

// ActiveEra is the currently active era and its start time, if known
type ActiveEra struct {
	Index   uint32
	StartMs uint64
}

// ValidatorPrefs are the preferences a validator declares
type ValidatorPrefs struct {
	// Commission in parts per billion
	Commission uint32
	Blocked    bool
}

// CommissionRate returns the commission as a fraction in [0, 1]
func (p ValidatorPrefs) CommissionRate() float64 {
	return min(float64(p.Commission)/PerbillDenominator, 1)
}

// ExposureOverview summarizes the stake backing a validator in an era
type ExposureOverview struct {
	Total          uint256.Int
	Own            uint256.Int
	NominatorCount uint32
	PageCount      uint32
}

// NominatorStake returns the part of the total stake that is not the validator's own
func (e ExposureOverview) NominatorStake() uint256.Int {
	var ret uint256.Int
	if e.Own.Gt(&e.Total) {
		return ret
	}
	ret.Sub(&e.Total, &e.Own)
	return ret
}

type ValidatorPoints struct {
	Validator AccountID
	Points    uint32
}

// EraRewardPoints are the reward points earned in an era
type EraRewardPoints struct {
	Total      uint32
	Individual []ValidatorPoints
}

// PointsOf returns the points earned by a validator, or 0
func (e EraRewardPoints) PointsOf(validator AccountID) uint32 {
	for _, p := range e.Individual {
		if p.Validator == validator {
			return p.Points
		}
	}
	return 0
}

// ValidatorCandidate is a registered validator with its current preferences.
// Active is set when it is in the current session's validator set
type ValidatorCandidate struct {
	Account AccountID
	Prefs   ValidatorPrefs
	Active  bool
}
