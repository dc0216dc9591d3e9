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

package cbor_test

import (
	"math/big"
	"testing"

	"github.com/blinklabs-io/stakeopt/cbor"
	"github.com/blinklabs-io/stakeopt/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var valueTestDefs = []struct {
	name           string
	cborHex        string
	expectedObject any
	expectError    bool
}{
	{
		name:           "EmptyList",
		cborHex:        "80",
		expectedObject: []any{},
	},
	{
		name:        "TruncatedList",
		cborHex:     "81",
		expectError: true,
	},
	{
		name:        "UnhashableMapKey",
		cborHex:     "A1810000",
		expectError: true,
	},
	{
		name:           "List",
		cborHex:        "83010203",
		expectedObject: []any{uint64(1), uint64(2), uint64(3)},
	},
	{
		name:    "TextKeyedMap",
		cborHex: "A2616101616202",
		expectedObject: map[any]any{
			"a": uint64(1),
			"b": uint64(2),
		},
	},
	{
		name:    "NestedMapOfLists",
		cborHex: "A2018102038104",
		expectedObject: map[any]any{
			uint64(1): []any{uint64(2)},
			uint64(3): []any{uint64(4)},
		},
	},
	{
		name:    "Bignums",
		cborHex: "82C24A04B9E028911409DC866DC24C1B9404A39BD8000000000000",
		expectedObject: []any{
			*(new(big.Int).SetBytes(test.DecodeHexString("04B9E028911409DC866D"))),
			*(new(big.Int).SetBytes(test.DecodeHexString("1B9404A39BD8000000000000"))),
		},
	},
	{
		name:           "ByteString",
		cborHex:        "43abcdef",
		expectedObject: cbor.NewByteString([]byte{0xab, 0xcd, 0xef}),
	},
	{
		name:    "GenericObjectTag",
		cborHex: "D81B8264536F6D6581182A",
		expectedObject: cbor.Tag{
			Number:  27,
			Content: []any{"Some", []any{uint64(42)}},
		},
	},
}

func TestValueDecode(t *testing.T) {
	for _, testDef := range valueTestDefs {
		t.Run(testDef.name, func(t *testing.T) {
			var tmpValue cbor.Value
			_, err := cbor.Decode(test.DecodeHexString(testDef.cborHex), &tmpValue)
			if testDef.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testDef.expectedObject, tmpValue.Value)
		})
	}
}

func TestDecodeReportsBytesRead(t *testing.T) {
	var first uint64
	n, err := cbor.Decode(test.DecodeHexString("182a01"), &first)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, uint64(42), first)
}

func TestEncodeDeterministicMapOrder(t *testing.T) {
	first, err := cbor.Encode(map[string]uint64{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	second, err := cbor.Encode(map[string]uint64{"c": 3, "a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, test.DecodeHexString("A3616101616202616303"), first)
}
