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
	"context"
	"encoding/binary"
	"slices"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/blinklabs-io/stakeopt/yield"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentQueries bounds the concurrent storage reads of a fan-out fetch
const maxConcurrentQueries = 8

// Account returns the balance and nonce of an account. A missing account has
// an empty balance and nonce 0
func (c *Client) Account(ctx context.Context, account staking.AccountID) (staking.AccountBalance, uint64, error) {
	n, err := c.AccountRecord(ctx, account)
	if err != nil {
		return staking.AccountBalance{}, 0, err
	}
	nonce, err := staking.DecodeNonce(n)
	if err != nil {
		return staking.AccountBalance{}, 0, err
	}
	return staking.DecodeAccountBalance(n), nonce, nil
}

// Ledger returns the staking ledger controlled by the stash, or nil if it is not bonded
func (c *Client) Ledger(ctx context.Context, stash staking.AccountID) (*staking.StakingLedger, error) {
	n, err := c.Query(ctx, ItemStakingLedger, AccountKey(stash))
	if err != nil {
		return nil, err
	}
	return staking.DecodeStakingLedger(n, stash), nil
}

func (c *Client) Nominations(ctx context.Context, account staking.AccountID) (*staking.NominatorInfo, error) {
	n, err := c.Query(ctx, ItemStakingNominators, AccountKey(account))
	if err != nil {
		return nil, err
	}
	return staking.DecodeNominations(n), nil
}

func (c *Client) PoolMembership(ctx context.Context, account staking.AccountID) (*staking.PoolMembership, error) {
	n, err := c.Query(ctx, ItemPoolMembers, AccountKey(account))
	if err != nil {
		return nil, err
	}
	return staking.DecodePoolMembership(n), nil
}

// ActiveEra returns the active era, or nil before the first era starts
func (c *Client) ActiveEra(ctx context.Context) (*staking.ActiveEra, error) {
	n, err := c.Query(ctx, ItemStakingActiveEra)
	if err != nil {
		return nil, err
	}
	return staking.DecodeActiveEra(n)
}

// ValidatorPrefs returns the current preferences of a validator candidate
func (c *Client) ValidatorPrefs(ctx context.Context, validator staking.AccountID) (staking.ValidatorPrefs, error) {
	n, err := c.Query(ctx, ItemStakingValidators, AccountKey(validator))
	if err != nil {
		return staking.ValidatorPrefs{}, err
	}
	return staking.DecodeValidatorPrefs(n), nil
}

// ExposureOverview returns the stake behind a validator in an era. The
// second return value is false if the validator was not active
func (c *Client) ExposureOverview(
	ctx context.Context,
	era uint32,
	validator staking.AccountID,
) (staking.ExposureOverview, bool, error) {
	n, err := c.Query(ctx, ItemStakingErasStakers, U32Key(era), AccountKey(validator))
	if err != nil || n == nil {
		return staking.ExposureOverview{}, false, err
	}
	return staking.DecodeExposureOverview(n), true, nil
}

func (c *Client) EraRewardPoints(ctx context.Context, era uint32) (staking.EraRewardPoints, error) {
	n, err := c.Query(ctx, ItemStakingErasRewardPoints, U32Key(era))
	if err != nil {
		return staking.EraRewardPoints{}, err
	}
	return staking.DecodeEraRewardPoints(n), nil
}

// EraReward returns the total validator payout of an era. It is zero until the era ends
func (c *Client) EraReward(ctx context.Context, era uint32) (uint256.Int, error) {
	n, err := c.Query(ctx, ItemStakingErasReward, U32Key(era))
	if err != nil {
		return uint256.Int{}, err
	}
	return staking.DecodeBalance(n), nil
}

// BondedPool returns a nomination pool with its name, or nil if it does not exist
func (c *Client) BondedPool(ctx context.Context, poolID uint32) (*staking.BondedPool, error) {
	var poolNode, nameNode value.Node
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		poolNode, err = c.Query(gctx, ItemBondedPools, U32Key(poolID))
		return err
	})
	g.Go(func() error {
		var err error
		nameNode, err = c.Query(gctx, ItemPoolMetadata, U32Key(poolID))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	ret := staking.DecodeBondedPool(poolID, poolNode)
	if ret != nil {
		ret.Name = staking.DecodePoolName(nameNode)
	}
	return ret, nil
}

// PoolNominations returns the nominations of a pool's bonded account, or nil
// if the pool is not nominating
func (c *Client) PoolNominations(ctx context.Context, poolID uint32) (*staking.NominatorInfo, error) {
	return c.Nominations(ctx, staking.DerivePoolAccount(poolID, staking.PoolAccountBonded))
}

// Pools returns every nomination pool in id order, reading at most
// staking.MaxPools of them
func (c *Client) Pools(ctx context.Context) ([]*staking.BondedPool, error) {
	keys, err := c.storageKeys(ctx, ItemBondedPools, staking.MaxPools)
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, 0, len(keys))
	for _, key := range keys {
		if len(key) != 4 {
			continue
		}
		ids = append(ids, binary.LittleEndian.Uint32(key))
	}
	slices.Sort(ids)
	pools := make([]*staking.BondedPool, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for idx, id := range ids {
		g.Go(func() error {
			var err error
			pools[idx], err = c.BondedPool(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// pools removed between the key listing and the read are skipped
	ret := pools[:0]
	for _, pool := range pools {
		if pool != nil {
			ret = append(ret, pool)
		}
	}
	return ret, nil
}

// SessionValidators returns the validator set of the current session
func (c *Client) SessionValidators(ctx context.Context) ([]staking.AccountID, error) {
	n, err := c.Query(ctx, ItemSessionValidators)
	if err != nil {
		return nil, err
	}
	return staking.DecodeAccountIDs(n, staking.MaxSessionValidators), nil
}

// ValidatorCandidates returns the registered validators with their current
// preferences, ordered by account and marked active when they are in the
// current session. At most staking.MaxValidatorCandidates are read
func (c *Client) ValidatorCandidates(ctx context.Context) ([]staking.ValidatorCandidate, error) {
	keys, err := c.storageKeys(ctx, ItemStakingValidators, staking.MaxValidatorCandidates)
	if err != nil {
		return nil, err
	}
	session, err := c.SessionValidators(ctx)
	if err != nil {
		return nil, err
	}
	active := make(map[staking.AccountID]struct{}, len(session))
	for _, account := range session {
		active[account] = struct{}{}
	}
	ret := make([]staking.ValidatorCandidate, 0, len(keys))
	for _, key := range keys {
		account, err := staking.NewAccountID(key)
		if err != nil {
			continue
		}
		_, isActive := active[account]
		ret = append(ret, staking.ValidatorCandidate{Account: account, Active: isActive})
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for idx := range ret {
		g.Go(func() error {
			var err error
			ret[idx].Prefs, err = c.ValidatorPrefs(gctx, ret[idx].Account)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

// AccountOverview reads the full staking position of an account concurrently
func (c *Client) AccountOverview(ctx context.Context, account staking.AccountID) (*staking.AccountSnapshot, error) {
	ret := &staking.AccountSnapshot{Account: account}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ret.Balance, ret.Nonce, err = c.Account(gctx, account)
		return err
	})
	g.Go(func() error {
		var err error
		ret.Ledger, err = c.Ledger(gctx, account)
		return err
	})
	g.Go(func() error {
		var err error
		ret.Nominations, err = c.Nominations(gctx, account)
		return err
	})
	g.Go(func() error {
		var err error
		ret.Pool, err = c.PoolMembership(gctx, account)
		return err
	})
	g.Go(func() error {
		active, err := c.ActiveEra(gctx)
		if err != nil {
			return err
		}
		if active != nil {
			ret.ActiveEra = active.Index
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.logger.Debug(
		"read account overview",
		"component", "chain",
		"account", account.String(),
		"nominating", ret.IsNominating(),
		"pool", ret.Pool != nil,
	)
	return ret, nil
}

// ValidatorHistory reads one sample per era for a validator. Eras where the
// validator was not active produce a sample with Active unset
func (c *Client) ValidatorHistory(
	ctx context.Context,
	validator staking.AccountID,
	eras []uint32,
) ([]yield.ValidatorEraSample, error) {
	ret := make([]yield.ValidatorEraSample, len(eras))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for idx, era := range eras {
		g.Go(func() error {
			sample, err := c.validatorEraSample(gctx, validator, era)
			if err != nil {
				return err
			}
			ret[idx] = sample
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Client) validatorEraSample(
	ctx context.Context,
	validator staking.AccountID,
	era uint32,
) (yield.ValidatorEraSample, error) {
	ret := yield.ValidatorEraSample{Era: era}
	overview, active, err := c.ExposureOverview(ctx, era, validator)
	if err != nil || !active {
		return ret, err
	}
	ret.Active = true
	ret.TotalStake = overview.Total
	ret.NominatorCount = overview.NominatorCount
	prefsNode, err := c.Query(ctx, ItemStakingErasValidatorPrefs, U32Key(era), AccountKey(validator))
	if err != nil {
		return ret, err
	}
	prefs := staking.DecodeValidatorPrefs(prefsNode)
	ret.Commission = prefs.CommissionRate()
	ret.Blocked = prefs.Blocked
	points, err := c.EraRewardPoints(ctx, era)
	if err != nil {
		return ret, err
	}
	ret.Points = points.PointsOf(validator)
	reward, err := c.EraReward(ctx, era)
	if err != nil {
		return ret, err
	}
	ret.Reward = yield.ValidatorShare(reward, ret.Points, points.Total)
	return ret, nil
}
