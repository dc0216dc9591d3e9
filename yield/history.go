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

package yield

import (
	"math"
	"slices"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/holiman/uint256"
)

// ValidatorEraSample is what a validator did in a single era
type ValidatorEraSample struct {
	Era            uint32
	Active         bool
	TotalStake     uint256.Int
	NominatorCount uint32
	// Reward is the validator's share of the era payout, before commission
	Reward     uint256.Int
	Commission float64
	Blocked    bool
	Points     uint32
}

// ValidatorSummary aggregates a validator's samples over several eras
type ValidatorSummary struct {
	Validator      staking.AccountID
	Commission     float64
	Blocked        bool
	Points         uint32
	TotalStake     uint256.Int
	NominatorCount uint32
	NominatorYield float64
	TotalYield     float64
	ActiveRatio    float64
	Eras           int
}

// AggregateValidator smooths the per-era yields of the eras a validator was
// active in. The most recent sample provides commission, stake and points
func AggregateValidator(
	validator staking.AccountID,
	samples []ValidatorEraSample,
	eraDurationMs uint64,
	kind MovingAverageType,
) ValidatorSummary {
	ret := ValidatorSummary{
		Validator: validator,
		Eras:      len(samples),
	}
	if len(samples) == 0 {
		return ret
	}
	sorted := slices.Clone(samples)
	slices.SortFunc(sorted, func(a, b ValidatorEraSample) int {
		return int(a.Era) - int(b.Era)
	})
	latest := sorted[len(sorted)-1]
	ret.Commission = latest.Commission
	ret.Blocked = latest.Blocked
	ret.Points = latest.Points
	ret.TotalStake = latest.TotalStake
	ret.NominatorCount = latest.NominatorCount

	nominatorYields := make([]float64, 0, len(sorted))
	totalYields := make([]float64, 0, len(sorted))
	for _, sample := range sorted {
		if !sample.Active {
			continue
		}
		totalYields = append(
			totalYields,
			EraYield(sample.Reward, sample.TotalStake, eraDurationMs),
		)
		nominatorYields = append(
			nominatorYields,
			NominatorYield(sample.Reward, sample.Commission, sample.TotalStake, eraDurationMs),
		)
	}
	ret.ActiveRatio = float64(len(totalYields)) / float64(len(sorted))
	ret.TotalYield = MovingAverage(kind, totalYields)
	ret.NominatorYield = MovingAverage(kind, nominatorYields)
	return ret
}

// HistoryPoint is one era of an account's reward history
type HistoryPoint struct {
	Era     uint32
	Rewards uint256.Int
	Staked  uint256.Int
	Yield   float64
}

type HistoryStats struct {
	TotalRewards     uint256.Int
	AvgRewardsPerEra float64
	AvgYield         float64
	MinYield         float64
	MaxYield         float64
	FinalStake       uint256.Int
	EraCount         int
}

// ComputeHistoryStats summarizes an account's reward history. The history is
// expected in era order
func ComputeHistoryStats(history []HistoryPoint) HistoryStats {
	var ret HistoryStats
	if len(history) == 0 {
		return ret
	}
	ret.EraCount = len(history)
	ret.MinYield = math.Inf(1)
	ret.MaxYield = math.Inf(-1)
	var sumYield float64
	for _, h := range history {
		ret.TotalRewards.Add(&ret.TotalRewards, &h.Rewards)
		ret.MinYield = min(ret.MinYield, h.Yield)
		ret.MaxYield = max(ret.MaxYield, h.Yield)
		sumYield += h.Yield
	}
	ret.AvgYield = sumYield / float64(len(history))
	ret.AvgRewardsPerEra = toFloat(&ret.TotalRewards) / float64(len(history))
	ret.FinalStake = history[len(history)-1].Staked
	return ret
}

// NewHistoryPoint returns a history entry with the yield of earning rewards on staked in one era
func NewHistoryPoint(era uint32, rewards uint256.Int, staked uint256.Int, eraDurationMs uint64) HistoryPoint {
	return HistoryPoint{
		Era:     era,
		Rewards: rewards,
		Staked:  staked,
		Yield:   EraYield(rewards, staked, eraDurationMs),
	}
}
