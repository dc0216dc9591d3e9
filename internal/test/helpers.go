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

package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/stakeopt/value"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace and 0x prefix in hex string
	hexData = strings.TrimPrefix(strings.TrimSpace(hexData), "0x")
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// FilledBytes returns size bytes all set to fill
func FilledBytes(fill byte, size int) []byte {
	ret := make([]byte, size)
	for i := range ret {
		ret[i] = fill
	}
	return ret
}

// AccountInfoNode returns a System.Account value tree as a node would report it
func AccountInfoNode(nonce uint64, free uint64) value.Node {
	return value.Named(
		value.F("nonce", value.NewUint(nonce)),
		value.F("consumers", value.NewUint(1)),
		value.F("providers", value.NewUint(1)),
		value.F("sufficients", value.NewUint(0)),
		value.F("data", value.Named(
			value.F("free", value.NewUint(free)),
			value.F("reserved", value.NewUint(0)),
			value.F("frozen", value.NewUint(0)),
			value.F("flags", value.NewUint(0)),
		)),
	)
}
