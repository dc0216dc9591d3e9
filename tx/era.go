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

package tx

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

const (
	DefaultMortalPeriod = 64

	minMortalPeriod = 4
	maxMortalPeriod = 1 << 16
)

// Era is the validity window of a transaction. The zero value is immortal
type Era struct {
	mortal bool
	period uint64
	phase  uint64
}

func Immortal() Era {
	return Era{}
}

// Mortal returns a mortal era. Period and phase are normalized on encoding
func Mortal(period uint64, phase uint64) Era {
	return Era{mortal: true, period: period, phase: phase}
}

// MortalAt returns a mortal era of the given period whose phase is taken from
// the checkpoint block number
func MortalAt(period uint64, blockNumber uint64) Era {
	if period == 0 {
		period = DefaultMortalPeriod
	}
	return Mortal(period, blockNumber%period)
}

func (e Era) IsMortal() bool { return e.mortal }
func (e Era) Period() uint64 { return e.period }
func (e Era) Phase() uint64 { return e.phase }

func (e Era) String() string {
	if !e.mortal {
		return "immortal"
	}
	return fmt.Sprintf("mortal(period=%d, phase=%d)", e.period, e.phase)
}

// Encode returns a single zero byte for an immortal era, or 2 little-endian
// bytes holding the log2 period and the quantized phase
func (e Era) Encode() []byte {
	return e.AppendTo(nil)
}

func (e Era) AppendTo(dst []byte) []byte {
	if !e.mortal {
		return append(dst, 0x00)
	}
	period := normalizePeriod(e.period)
	quantizeFactor := max(period>>12, 1)
	quantizedPhase := (e.phase / quantizeFactor) * quantizeFactor
	low := min(uint64(bits.TrailingZeros64(period))-1, 15)
	high := min(quantizedPhase/max(period>>4, 1), 15) << 4
	return binary.LittleEndian.AppendUint16(dst, uint16(low|high)) // #nosec G115
}

// normalizePeriod rounds up to a power of two within the allowed range
func normalizePeriod(period uint64) uint64 {
	if period <= minMortalPeriod {
		return minMortalPeriod
	}
	if period >= maxMortalPeriod {
		return maxMortalPeriod
	}
	return 1 << bits.Len64(period-1)
}
