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

// Package era resolves the wall-clock length of a staking era from runtime
// constants and computes progress through the active era.
package era

import (
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"time"

	"github.com/blinklabs-io/stakeopt/staking"
)

// ExpectedDurationMs is the era length assumed when the runtime does not say otherwise
const ExpectedDurationMs uint64 = 24 * 60 * 60 * 1000

// ConstantSource provides runtime constants as unsigned integers. An error
// means the constant is unavailable
type ConstantSource interface {
	ConstantU64(pallet string, name string) (uint64, error)
}

type DurationSource int

const (
	DurationSourceMaxEraDuration DurationSource = iota + 1
	DurationSourceBabe
	DurationSourceDefault
)

func (s DurationSource) String() string {
	switch s {
	case DurationSourceMaxEraDuration:
		return "Staking.MaxEraDuration"
	case DurationSourceBabe:
		return "Babe"
	case DurationSourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

type Resolver struct {
	source ConstantSource
	logger *slog.Logger
}

func NewResolver(source ConstantSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		source: source,
		logger: logger,
	}
}

// Duration returns the era length in milliseconds and where it came from.
//
// A declared Staking.MaxEraDuration is capped at ExpectedDurationMs, since on
// some deployments it is a loose upper bound rather than the actual cadence.
// Without it, the length is derived from SessionsPerEra, EpochDuration and
// ExpectedBlockTime when all three are known. Otherwise ExpectedDurationMs is used
func (r *Resolver) Duration() (uint64, DurationSource) {
	if maxEra, ok := r.constant("Staking", "MaxEraDuration"); ok && maxEra > 0 {
		return min(ExpectedDurationMs, maxEra), DurationSourceMaxEraDuration
	}
	sessionsPerEra, ok1 := r.constant("Staking", "SessionsPerEra")
	epochDuration, ok2 := r.constant("Babe", "EpochDuration")
	blockTime, ok3 := r.constant("Babe", "ExpectedBlockTime")
	if ok1 && ok2 && ok3 {
		hi, blocks := bits.Mul64(sessionsPerEra, epochDuration)
		hi2, ms := bits.Mul64(blocks, blockTime)
		if hi == 0 && hi2 == 0 && ms > 0 {
			return ms, DurationSourceBabe
		}
	}
	r.logger.Warn(
		"could not determine era duration from runtime constants, using default",
		"component", "era",
		"duration_ms", ExpectedDurationMs,
	)
	return ExpectedDurationMs, DurationSourceDefault
}

// BondingDuration returns the number of eras stake stays locked after unbonding
func (r *Resolver) BondingDuration() (uint32, error) {
	return r.constantU32("Staking", "BondingDuration")
}

// HistoryDepth returns the number of past eras the runtime keeps reward data for
func (r *Resolver) HistoryDepth() (uint32, error) {
	return r.constantU32("Staking", "HistoryDepth")
}

func (r *Resolver) constant(pallet string, name string) (uint64, bool) {
	if r.source == nil {
		return 0, false
	}
	v, err := r.source.ConstantU64(pallet, name)
	if err != nil {
		r.logger.Debug(
			"runtime constant unavailable",
			"component", "era",
			"pallet", pallet,
			"name", name,
			"error", err,
		)
		return 0, false
	}
	return v, true
}

func (r *Resolver) constantU32(pallet string, name string) (uint32, error) {
	if r.source == nil {
		return 0, staking.InvalidDataError{Reason: "no runtime constant source"}
	}
	v, err := r.source.ConstantU64(pallet, name)
	if err != nil {
		return 0, fmt.Errorf("constant %s.%s: %w", pallet, name, err)
	}
	if v > math.MaxUint32 {
		return 0, staking.InvalidDataError{
			Reason: fmt.Sprintf("constant %s.%s out of range: %d", pallet, name, v),
		}
	}
	return uint32(v), nil // #nosec G115
}

// Info describes the active era and progress through it
type Info struct {
	Index          uint32
	StartMs        uint64
	DurationMs     uint64
	PctComplete    float64
	EstimatedEndMs uint64
}

// NewInfo computes progress through the active era as of now
func NewInfo(active staking.ActiveEra, durationMs uint64, now time.Time) (Info, error) {
	nowMs := now.UnixMilli()
	if nowMs < 0 {
		return Info{}, staking.InvalidDataError{Reason: "system time is before the Unix epoch"}
	}
	ret := Info{
		Index:      active.Index,
		StartMs:    active.StartMs,
		DurationMs: durationMs,
	}
	var elapsed uint64
	if uint64(nowMs) > active.StartMs {
		elapsed = uint64(nowMs) - active.StartMs
	}
	if durationMs > 0 {
		ret.PctComplete = min(max(float64(elapsed)/float64(durationMs), 0), 1)
	}
	ret.EstimatedEndMs = active.StartMs + durationMs
	if ret.EstimatedEndMs < active.StartMs {
		ret.EstimatedEndMs = math.MaxUint64
	}
	return ret, nil
}

// Remaining returns the time left until the estimated end of the era
func (i Info) Remaining(now time.Time) time.Duration {
	end := time.UnixMilli(int64(min(i.EstimatedEndMs, math.MaxInt64))) // #nosec G115
	if !now.Before(end) {
		return 0
	}
	return end.Sub(now)
}
