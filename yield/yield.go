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

// Package yield computes compounding staking yields from per-era reward
// samples and smooths them over multiple eras.
package yield

import (
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// MsPerYear is the length of a tropical year in milliseconds
const MsPerYear = 365.24219 * 24 * 60 * 60 * 1000

// EraYield returns the annualized yield of earning reward on invested once per
// era, compounded every era. It returns 0 if invested or the era duration is 0
func EraYield(reward uint256.Int, invested uint256.Int, eraDurationMs uint64) float64 {
	if invested.IsZero() || eraDurationMs == 0 {
		return 0
	}
	return compound(toFloat(&reward)/toFloat(&invested), eraDurationMs)
}

// NominatorYield returns the annualized yield of a nominator after the
// validator takes commission (a fraction in [0, 1]) from the era reward
func NominatorYield(totalReward uint256.Int, commission float64, invested uint256.Int, eraDurationMs uint64) float64 {
	if invested.IsZero() || eraDurationMs == 0 {
		return 0
	}
	commission = min(max(commission, 0), 1)
	if commission == 1 {
		return 0
	}
	share := toFloat(&totalReward) * (1 - commission)
	return compound(share/toFloat(&invested), eraDurationMs)
}

func compound(rate float64, eraDurationMs uint64) float64 {
	erasPerYear := MsPerYear / float64(eraDurationMs)
	return math.Pow(1+rate, erasPerYear) - 1
}

func toFloat(v *uint256.Int) float64 {
	if v.IsUint64() {
		return float64(v.Uint64())
	}
	ret, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	return ret
}

// ValidatorShare returns the part of the total era reward earned by a
// validator with the given points. It returns 0 if totalPoints is 0
func ValidatorShare(eraReward uint256.Int, points uint32, totalPoints uint32) uint256.Int {
	var ret uint256.Int
	if totalPoints == 0 || points == 0 {
		return ret
	}
	num := new(big.Int).Mul(eraReward.ToBig(), big.NewInt(int64(points)))
	num.Quo(num, big.NewInt(int64(totalPoints)))
	if overflow := ret.SetFromBig(num); overflow {
		return eraReward
	}
	return ret
}

type MovingAverageType string

const (
	MovingAverageSimple      MovingAverageType = "simple"
	MovingAverageExponential MovingAverageType = "exponential"
)

func ParseMovingAverageType(s string) (MovingAverageType, error) {
	switch MovingAverageType(s) {
	case MovingAverageSimple, "":
		return MovingAverageSimple, nil
	case MovingAverageExponential:
		return MovingAverageExponential, nil
	default:
		return "", fmt.Errorf("unknown moving average type: %s", s)
	}
}

// SimpleMovingAverage returns the arithmetic mean, or 0 for no values
func SimpleMovingAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// ExponentialMovingAverage seeds with the first value and applies a smoothing
// factor of 2/(n+1), where n is the number of values
func ExponentialMovingAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	alpha := 2 / (float64(len(values)) + 1)
	ema := values[0]
	for _, v := range values[1:] {
		ema = v*alpha + ema*(1-alpha)
	}
	return ema
}

func MovingAverage(kind MovingAverageType, values []float64) float64 {
	if kind == MovingAverageExponential {
		return ExponentialMovingAverage(values)
	}
	return SimpleMovingAverage(values)
}
