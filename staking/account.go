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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/stakeopt/ss58"
	"github.com/blinklabs-io/stakeopt/value"
)

const AccountIDLength = 32

// AccountID is a 32-byte account identifier
type AccountID [AccountIDLength]byte

// NewAccountID returns an AccountID from a 32-byte slice
func NewAccountID(data []byte) (AccountID, error) {
	var ret AccountID
	if len(data) != AccountIDLength {
		return ret, fmt.Errorf(
			"invalid account ID length: expected %d bytes, got %d",
			AccountIDLength,
			len(data),
		)
	}
	copy(ret[:], data)
	return ret, nil
}

// ParseAccountID accepts either an SS58 address or a 0x-prefixed hex account identifier
func ParseAccountID(s string) (AccountID, error) {
	if len(s) == 2+2*AccountIDLength && (s[:2] == "0x" || s[:2] == "0X") {
		data, err := hex.DecodeString(s[2:])
		if err != nil {
			return AccountID{}, err
		}
		return NewAccountID(data)
	}
	account, _, err := ss58.Decode(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("parse account %q: %w", s, err)
	}
	return AccountID(account), nil
}

func (a AccountID) Bytes() []byte {
	return a[:]
}

// String returns the account identifier as 0x-prefixed hex
func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// SS58 returns the address string of the account for the given network prefix
func (a AccountID) SS58(prefix uint16) string {
	return ss58.Encode(a, prefix)
}

func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// DecodeAccountID reconstructs an account identifier from a byte-indexed node.
// Exactly 32 positional byte values must be present, otherwise there is no
// account. Optional and newtype wrappers around the bytes are looked through
func DecodeAccountID(n value.Node) (AccountID, bool) {
	if n == nil {
		return AccountID{}, false
	}
	raw := value.AsBytes(value.Unwrap(n), AccountIDLength)
	if len(raw) != AccountIDLength {
		return AccountID{}, false
	}
	return AccountID(raw), true
}
