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
	"testing"

	"github.com/blinklabs-io/stakeopt/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteString(t *testing.T) {
	bs := cbor.NewByteString([]byte("stakeopt"))
	assert.Equal(t, "7374616b656f7074", bs.String())
	assert.Equal(t, 8, bs.Len())

	data, err := cbor.Encode(bs)
	require.NoError(t, err)
	assert.Equal(t, "\x48stakeopt", string(data))

	var out cbor.ByteString
	n, err := cbor.Decode(data, &out)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, bs, out)
}

func TestByteStringMapKey(t *testing.T) {
	m := map[cbor.ByteString]int{
		cbor.NewByteString([]byte{0x01}): 1,
	}
	assert.Equal(t, 1, m[cbor.NewByteString([]byte{0x01})])
	assert.Zero(t, m[cbor.NewByteString([]byte{0x02})])
}
