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
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/holiman/uint256"
)

// balanceAt returns the integer at path, or zero when it is missing
func balanceAt(n value.Node, path string) uint256.Int {
	child, ok := value.Path(n, path)
	if !ok {
		return uint256.Int{}
	}
	ret, _ := value.AsUint(child)
	return ret
}

// uint32At returns the integer at path, or zero when it is missing or does not fit
func uint32At(n value.Node, path string) uint32 {
	child, ok := value.Path(n, path)
	if !ok {
		return 0
	}
	ret, _ := value.AsUint32(child)
	return ret
}

// walk calls fn for each positional child of n, stopping at the first missing
// position or after limit children
func walk(n value.Node, limit int, fn func(value.Node)) {
	if n == nil {
		return
	}
	for i := range limit {
		child, ok := value.Index(n, i)
		if !ok {
			return
		}
		fn(child)
	}
}

// DecodeBalance decodes a bare balance storage value
func DecodeBalance(n value.Node) uint256.Int {
	if n == nil {
		return uint256.Int{}
	}
	ret, _ := value.AsUint(n)
	return ret
}

// DecodeAccountBalance decodes the balance portion of a System.Account record.
// A missing record is an empty balance
func DecodeAccountBalance(n value.Node) AccountBalance {
	return AccountBalance{
		Free:     balanceAt(n, "data.free"),
		Reserved: balanceAt(n, "data.reserved"),
		Frozen:   balanceAt(n, "data.frozen"),
	}
}

// DecodeNonce decodes the nonce of a System.Account record. A missing record
// or nonce field means nonce 0, but a nonce that is present must be numeric
func DecodeNonce(n value.Node) (uint64, error) {
	child, ok := value.At(n, "nonce")
	if !ok {
		return 0, nil
	}
	ret, ok := value.AsUint64(child)
	if !ok {
		return 0, DecodeError{Field: "nonce", Reason: "not an unsigned 64-bit integer"}
	}
	return ret, nil
}

// DecodeStakingLedger decodes a Staking.Ledger record. The stash recorded in
// the ledger is used when present, otherwise the provided stash. A missing
// record returns nil
func DecodeStakingLedger(n value.Node, stash AccountID) *StakingLedger {
	if n == nil {
		return nil
	}
	ret := &StakingLedger{
		Stash:  stash,
		Total:  balanceAt(n, "total"),
		Active: balanceAt(n, "active"),
	}
	if child, ok := value.At(n, "stash"); ok {
		if account, ok := DecodeAccountID(child); ok {
			ret.Stash = account
		}
	}
	unlocking, _ := value.At(n, "unlocking")
	walk(unlocking, MaxUnlockingChunks, func(chunk value.Node) {
		c := UnlockChunk{
			Value: balanceAt(chunk, "value"),
			Era:   uint32At(chunk, "era"),
		}
		if c.Value.IsZero() {
			return
		}
		ret.Unlocking = append(ret.Unlocking, c)
	})
	return ret
}

// DecodeNominations decodes a Staking.Nominators record. Targets that are not
// well formed account identifiers are skipped. A missing record returns nil
func DecodeNominations(n value.Node) *NominatorInfo {
	if n == nil {
		return nil
	}
	ret := &NominatorInfo{
		SubmittedIn: uint32At(n, "submitted_in"),
	}
	if child, ok := value.At(n, "suppressed"); ok {
		ret.Suppressed, _ = value.AsBool(child)
	}
	targets, _ := value.At(n, "targets")
	walk(targets, MaxNominations, func(target value.Node) {
		if account, ok := DecodeAccountID(target); ok {
			ret.Targets = append(ret.Targets, account)
		}
	})
	return ret
}

// DecodePoolMembership decodes a NominationPools.PoolMembers record. Unbonding
// eras are (era, amount) pairs. A missing record returns nil
func DecodePoolMembership(n value.Node) *PoolMembership {
	if n == nil {
		return nil
	}
	ret := &PoolMembership{
		PoolID: uint32At(n, "pool_id"),
		Points: balanceAt(n, "points"),
	}
	unbonding, _ := value.At(n, "unbonding_eras")
	walk(unbonding, MaxUnbondingEras, func(pair value.Node) {
		e := UnbondingEra{
			Era:    uint32At(pair, "0"),
			Amount: balanceAt(pair, "1"),
		}
		if e.Amount.IsZero() {
			return
		}
		ret.UnbondingEras = append(ret.UnbondingEras, e)
	})
	return ret
}

// DecodeActiveEra decodes the Staking.ActiveEra record. The era index is
// required. The start timestamp is optional and defaults to 0. A missing
// record returns nil
func DecodeActiveEra(n value.Node) (*ActiveEra, error) {
	if n == nil {
		return nil, nil
	}
	if name, ok := value.VariantName(n); ok && name == "Some" {
		n, _ = value.Index(n, 0)
	}
	child, ok := value.At(n, "index")
	if !ok {
		return nil, InvalidDataError{Reason: "missing era index"}
	}
	index, ok := value.AsUint32(child)
	if !ok {
		return nil, DecodeError{Field: "index", Reason: "not an unsigned 32-bit integer"}
	}
	ret := &ActiveEra{Index: index}
	if start, ok := value.At(n, "start"); ok {
		ret.StartMs, _ = value.AsUint64(start)
	}
	return ret, nil
}

// DecodeValidatorPrefs decodes a Staking.Validators record
func DecodeValidatorPrefs(n value.Node) ValidatorPrefs {
	var ret ValidatorPrefs
	if n == nil {
		return ret
	}
	ret.Commission = min(uint32At(n, "commission"), PerbillDenominator)
	if child, ok := value.At(n, "blocked"); ok {
		ret.Blocked, _ = value.AsBool(child)
	}
	return ret
}

// DecodeExposureOverview decodes a Staking.ErasStakersOverview record
func DecodeExposureOverview(n value.Node) ExposureOverview {
	return ExposureOverview{
		Total:          balanceAt(n, "total"),
		Own:            balanceAt(n, "own"),
		NominatorCount: uint32At(n, "nominator_count"),
		PageCount:      uint32At(n, "page_count"),
	}
}

// DecodeEraRewardPoints decodes a Staking.ErasRewardPoints record. Individual
// points are (account, points) pairs
func DecodeEraRewardPoints(n value.Node) EraRewardPoints {
	ret := EraRewardPoints{
		Total: uint32At(n, "total"),
	}
	individual, _ := value.At(n, "individual")
	walk(individual, MaxRewardPointEntries, func(pair value.Node) {
		accountNode, ok := value.Index(pair, 0)
		if !ok {
			return
		}
		account, ok := DecodeAccountID(accountNode)
		if !ok {
			return
		}
		ret.Individual = append(ret.Individual, ValidatorPoints{
			Validator: account,
			Points:    uint32At(pair, "1"),
		})
	})
	return ret
}

// DecodeAccountIDs decodes a sequence of accounts, reading at most limit
// entries. Entries that are not accounts are skipped
func DecodeAccountIDs(n value.Node, limit int) []AccountID {
	var ret []AccountID
	walk(n, limit, func(child value.Node) {
		if account, ok := DecodeAccountID(child); ok {
			ret = append(ret, account)
		}
	})
	return ret
}
