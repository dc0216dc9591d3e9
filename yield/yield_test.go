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

package yield_test

import (
	"math"
	"testing"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/yield"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dayMs = 86_400_000

func u(v uint64) uint256.Int {
	return *uint256.NewInt(v)
}

func TestEraYieldDailyOnePercent(t *testing.T) {
	y := yield.EraYield(u(100), u(10_000), dayMs)
	expected := math.Pow(1.01, yield.MsPerYear/dayMs) - 1
	assert.InDelta(t, expected, y, 1e-9)
	// 1% per day compounded over ~365.24 eras
	assert.Greater(t, y, 30.0)
	assert.Less(t, y, 40.0)
}

func TestEraYieldZeroInputs(t *testing.T) {
	for _, reward := range []uint64{0, 1, 1_000_000} {
		assert.Equal(t, 0.0, yield.EraYield(u(reward), u(0), dayMs))
	}
	assert.Equal(t, 0.0, yield.EraYield(u(100), u(10_000), 0))
	assert.Equal(t, 0.0, yield.EraYield(u(0), u(10_000), dayMs))
}

func TestEraYieldMonotonic(t *testing.T) {
	prev := yield.EraYield(u(0), u(1_000_000), dayMs)
	for reward := uint64(1); reward <= 2000; reward += 37 {
		cur := yield.EraYield(u(reward), u(1_000_000), dayMs)
		assert.Greater(t, cur, prev, "reward %d", reward)
		prev = cur
	}
}

func TestEraYieldLargeBalances(t *testing.T) {
	invested := uint256.MustFromDecimal("100000000000000000000000000")
	reward := uint256.MustFromDecimal("10000000000000000000000")
	y := yield.EraYield(*reward, *invested, dayMs)
	expected := math.Pow(1.0001, yield.MsPerYear/dayMs) - 1
	assert.InDelta(t, expected, y, 1e-9)
}

func TestNominatorYieldCommissionBounds(t *testing.T) {
	full := yield.NominatorYield(u(1000), 1.0, u(10_000), dayMs)
	assert.Equal(t, 0.0, full)
	none := yield.NominatorYield(u(1000), 0.0, u(10_000), dayMs)
	assert.InDelta(t, yield.EraYield(u(1000), u(10_000), dayMs), none, 1e-12)
	// out of range commissions are clamped
	assert.Equal(t, 0.0, yield.NominatorYield(u(1000), 1.5, u(10_000), dayMs))
	assert.InDelta(t, none, yield.NominatorYield(u(1000), -0.5, u(10_000), dayMs), 1e-12)
}

func TestNominatorYieldTenPercentCommission(t *testing.T) {
	withCommission := yield.NominatorYield(u(1000), 0.10, u(10_000), dayMs)
	withoutCommission := yield.NominatorYield(u(1000), 0.0, u(10_000), dayMs)
	assert.Less(t, withCommission, withoutCommission)
	assert.Greater(t, withCommission, 0.0)
	assert.InDelta(t, yield.EraYield(u(900), u(10_000), dayMs), withCommission, 1e-6)
}

func TestMovingAverages(t *testing.T) {
	assert.Equal(t, 0.0, yield.SimpleMovingAverage(nil))
	assert.Equal(t, 0.0, yield.ExponentialMovingAverage(nil))
	assert.Equal(t, 7.5, yield.SimpleMovingAverage([]float64{7.5}))
	assert.Equal(t, 7.5, yield.ExponentialMovingAverage([]float64{7.5}))
	assert.InDelta(t, 30.0, yield.SimpleMovingAverage([]float64{10, 20, 30, 40, 50}), 1e-12)

	// alpha = 2/(3+1) = 0.5: 10 -> 15 -> 22.5
	ema := yield.ExponentialMovingAverage([]float64{10, 20, 30})
	assert.InDelta(t, 22.5, ema, 1e-12)
	assert.Greater(t, ema, yield.SimpleMovingAverage([]float64{10, 20}))

	assert.InDelta(t, 22.5, yield.MovingAverage(yield.MovingAverageExponential, []float64{10, 20, 30}), 1e-12)
	assert.InDelta(t, 20.0, yield.MovingAverage(yield.MovingAverageSimple, []float64{10, 20, 30}), 1e-12)
}

func TestParseMovingAverageType(t *testing.T) {
	kind, err := yield.ParseMovingAverageType("")
	require.NoError(t, err)
	assert.Equal(t, yield.MovingAverageSimple, kind)
	kind, err = yield.ParseMovingAverageType("exponential")
	require.NoError(t, err)
	assert.Equal(t, yield.MovingAverageExponential, kind)
	_, err = yield.ParseMovingAverageType("weighted")
	assert.Error(t, err)
}

func TestValidatorShare(t *testing.T) {
	share := yield.ValidatorShare(u(1_000_000), 250, 1000)
	assert.Equal(t, uint64(250_000), share.Uint64())
	share = yield.ValidatorShare(u(1_000_000), 250, 0)
	assert.True(t, share.IsZero())
}

func TestAggregateValidator(t *testing.T) {
	validator := staking.AccountID{1}
	samples := []yield.ValidatorEraSample{
		{Era: 12, Active: true, TotalStake: u(10_000), Reward: u(200), Commission: 0.05, Points: 80},
		{Era: 10, Active: true, TotalStake: u(10_000), Reward: u(100), Commission: 0.10, Points: 60},
		{Era: 11, Active: false},
	}
	summary := yield.AggregateValidator(validator, samples, dayMs, yield.MovingAverageSimple)
	assert.Equal(t, validator, summary.Validator)
	assert.Equal(t, 3, summary.Eras)
	assert.InDelta(t, 2.0/3.0, summary.ActiveRatio, 1e-12)
	assert.Equal(t, 0.05, summary.Commission)
	assert.Equal(t, uint32(80), summary.Points)

	expectedTotal := (yield.EraYield(u(100), u(10_000), dayMs) + yield.EraYield(u(200), u(10_000), dayMs)) / 2
	assert.InDelta(t, expectedTotal, summary.TotalYield, 1e-9)
	assert.Less(t, summary.NominatorYield, summary.TotalYield)

	ema := yield.AggregateValidator(validator, samples, dayMs, yield.MovingAverageExponential)
	// the newer era has the higher yield and more weight
	assert.Greater(t, ema.TotalYield, summary.TotalYield)

	empty := yield.AggregateValidator(validator, nil, dayMs, yield.MovingAverageSimple)
	assert.Equal(t, 0.0, empty.ActiveRatio)
}

func TestComputeHistoryStats(t *testing.T) {
	assert.Equal(t, yield.HistoryStats{}, yield.ComputeHistoryStats(nil))
	history := []yield.HistoryPoint{
		yield.NewHistoryPoint(1, u(10), u(1000), dayMs),
		yield.NewHistoryPoint(2, u(20), u(1000), dayMs),
		yield.NewHistoryPoint(3, u(30), u(2000), dayMs),
	}
	stats := yield.ComputeHistoryStats(history)
	assert.Equal(t, 3, stats.EraCount)
	assert.Equal(t, uint64(60), stats.TotalRewards.Uint64())
	assert.InDelta(t, 20.0, stats.AvgRewardsPerEra, 1e-12)
	assert.Equal(t, uint64(2000), stats.FinalStake.Uint64())
	assert.Equal(t, history[0].Yield, stats.MinYield)
	assert.Equal(t, history[1].Yield, stats.MaxYield)
	assert.InDelta(t, (history[0].Yield+history[1].Yield+history[2].Yield)/3, stats.AvgYield, 1e-9)
}
