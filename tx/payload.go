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
	"encoding/hex"
	"fmt"
	"strings"
)

const HashSize = 32

// Hash is a 32-byte block or genesis hash
type Hash [HashSize]byte

// NewHashFromHex parses a hash with an optional 0x prefix
func NewHashFromHex(s string) (Hash, error) {
	var ret Hash
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return ret, err
	}
	if len(data) != HashSize {
		return ret, fmt.Errorf("invalid hash length: expected %d bytes, got %d", HashSize, len(data))
	}
	copy(ret[:], data)
	return ret, nil
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Extensions records optional transaction extensions declared by the runtime
// that add bytes to the signed data. With both unset the signed data has the
// base layout
type Extensions struct {
	// CheckMetadataHash adds a mode byte (0, disabled) to the extra data and an
	// empty optional hash to the additional signed data
	CheckMetadataHash bool
	// ChargeAssetTxPayment adds an empty optional asset id after the tip
	ChargeAssetTxPayment bool
}

// UnsignedPayload is everything a signature over a transaction covers
type UnsignedPayload struct {
	CallData    []byte
	Description string
	// MetadataHash is always zero, since metadata hashing is not implemented
	MetadataHash Hash
	GenesisHash  Hash
	BlockHash    Hash
	SpecVersion  uint32
	TxVersion    uint32
	Nonce        uint64
	Era          Era
	Extensions   Extensions
}

// appendExtra appends the extension data carried inside the extrinsic
func (p *UnsignedPayload) appendExtra(dst []byte) []byte {
	dst = p.Era.AppendTo(dst)
	dst = AppendCompact(dst, p.Nonce)
	// tip
	dst = AppendCompact(dst, 0)
	if p.Extensions.ChargeAssetTxPayment {
		dst = append(dst, 0x00)
	}
	if p.Extensions.CheckMetadataHash {
		dst = append(dst, 0x00)
	}
	return dst
}

// SigningPayload returns the bytes an offline signer signs, in order: call
// data, era, compact nonce, zero tip, spec version, transaction version,
// genesis hash and block hash
func (p *UnsignedPayload) SigningPayload() []byte {
	ret := make([]byte, 0, len(p.CallData)+16+4+4+2*HashSize)
	ret = append(ret, p.CallData...)
	ret = p.appendExtra(ret)
	ret = binary.LittleEndian.AppendUint32(ret, p.SpecVersion)
	ret = binary.LittleEndian.AppendUint32(ret, p.TxVersion)
	ret = append(ret, p.GenesisHash[:]...)
	ret = append(ret, p.BlockHash[:]...)
	if p.Extensions.CheckMetadataHash {
		ret = append(ret, 0x00)
	}
	return ret
}
