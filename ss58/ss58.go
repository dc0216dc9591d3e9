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

// Package ss58 implements the checksummed, network-prefixed base58 address
// format used by Substrate based networks.
package ss58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	AccountLength  = 32
	ChecksumLength = 2

	// GenericPrefix is used for prefixes that cannot be represented
	GenericPrefix uint16 = 42

	maxSimplePrefix   = 64
	maxExtendedPrefix = 16384
)

var checksumPreimagePrefix = []byte("SS58PRE")

var (
	ErrInvalidBase58   = errors.New("invalid base58 encoding")
	ErrInvalidLength   = errors.New("invalid address length")
	ErrInvalidPrefix   = errors.New("invalid address prefix")
	ErrInvalidChecksum = errors.New("invalid address checksum")
)

// Encode returns the address string for a 32-byte account identifier. Prefixes
// of 16384 and above cannot be represented and are replaced by GenericPrefix
func Encode(account [AccountLength]byte, prefix uint16) string {
	payload := make([]byte, 0, 2+AccountLength+ChecksumLength)
	switch {
	case prefix < maxSimplePrefix:
		payload = append(payload, byte(prefix))
	case prefix < maxExtendedPrefix:
		payload = append(
			payload,
			byte((prefix&0xfc)>>2)|0x40,
			byte(prefix>>8)|byte((prefix&0x03)<<6),
		)
	default:
		payload = append(payload, byte(GenericPrefix))
	}
	payload = append(payload, account[:]...)
	sum := checksum(payload)
	payload = append(payload, sum[:]...)
	return base58.Encode(payload)
}

// Decode parses an address string and returns the account identifier and network prefix
func Decode(addr string) ([AccountLength]byte, uint16, error) {
	var account [AccountLength]byte
	data := base58.Decode(addr)
	if len(data) == 0 {
		return account, 0, ErrInvalidBase58
	}
	var prefix uint16
	var prefixLen int
	switch {
	case data[0] < maxSimplePrefix:
		prefix = uint16(data[0])
		prefixLen = 1
	case data[0] < 128:
		if len(data) < 2 {
			return account, 0, ErrInvalidLength
		}
		lower := (data[0] << 2) | (data[1] >> 6)
		upper := data[1] & 0x3f
		prefix = uint16(lower) | (uint16(upper) << 8)
		prefixLen = 2
	default:
		return account, 0, fmt.Errorf("%w: leading byte 0x%02x", ErrInvalidPrefix, data[0])
	}
	if len(data) != prefixLen+AccountLength+ChecksumLength {
		return account, 0, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(data))
	}
	body := data[:prefixLen+AccountLength]
	sum := checksum(body)
	if !bytes.Equal(sum[:], data[len(body):]) {
		return account, 0, ErrInvalidChecksum
	}
	copy(account[:], body[prefixLen:])
	return account, prefix, nil
}

func checksum(payload []byte) [ChecksumLength]byte {
	h, _ := blake2b.New512(nil)
	h.Write(checksumPreimagePrefix)
	h.Write(payload)
	var ret [ChecksumLength]byte
	copy(ret[:], h.Sum(nil))
	return ret
}
