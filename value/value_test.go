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

package value_test

import (
	"testing"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountInfoTree() value.Node {
	return value.Named(
		value.F("nonce", value.NewUint(7)),
		value.F("consumers", value.NewUint(1)),
		value.F("data", value.Named(
			value.F("free", value.NewUint(1_000_000)),
			value.F("reserved", value.NewUint(5)),
			value.F("frozen", value.NewUint(0)),
			value.F("flags", value.NewUint256(uint256.MustFromHex("0x80000000000000000000000000000000"))),
		)),
	)
}

func TestNavigation(t *testing.T) {
	tree := accountInfoTree()
	testDefs := []struct {
		path     string
		expected uint64
		ok       bool
	}{
		{path: "nonce", expected: 7, ok: true},
		{path: "data.free", expected: 1_000_000, ok: true},
		{path: "data.0", expected: 1_000_000, ok: true},
		{path: "data.missing", ok: false},
		{path: "data.free.deeper", ok: false},
		{path: "2.1", expected: 5, ok: true},
		{path: "data.flags", ok: false},
	}
	for _, testDef := range testDefs {
		node, ok := value.Path(tree, testDef.path)
		if !ok {
			assert.False(t, testDef.ok, "path %s", testDef.path)
			continue
		}
		v, ok := value.AsUint64(node)
		assert.Equal(t, testDef.ok, ok, "path %s", testDef.path)
		assert.Equal(t, testDef.expected, v, "path %s", testDef.path)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	seq := value.Sequence{value.NewUint(1)}
	_, ok := value.Index(seq, 1)
	assert.False(t, ok)
	_, ok = value.Index(seq, -1)
	assert.False(t, ok)
	_, ok = value.At(seq, "x")
	assert.False(t, ok)
	_, ok = value.Index(value.Text("abc"), 0)
	assert.False(t, ok)
}

func TestUnwrapAndScalars(t *testing.T) {
	wrapped := value.Some(value.Tuple(value.NewUint(42)))
	v, ok := value.AsUint32(wrapped)
	require.True(t, ok)
	assert.Equal(t, uint32(42), v)

	_, ok = value.AsUint32(value.NewUint(1 << 33))
	assert.False(t, ok)

	_, ok = value.AsUint(value.None())
	assert.False(t, ok)

	b, ok := value.AsBool(value.Bool(true))
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := value.AsText(value.Tuple(value.Text("pool")))
	assert.True(t, ok)
	assert.Equal(t, "pool", s)

	name, ok := value.VariantName(value.None())
	assert.True(t, ok)
	assert.Equal(t, "None", name)
	_, ok = value.VariantName(value.NewUint(1))
	assert.False(t, ok)
}

func TestAsBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	assert.Equal(t, data[:3], value.AsBytes(value.Bytes(data), 3))
	assert.Equal(t, data, value.AsBytes(value.Bytes(data), 32))
	mixed := value.Sequence{value.NewUint(1), value.NewUint(300), value.NewUint(2)}
	assert.Equal(t, []byte{1}, value.AsBytes(mixed, 32))
	assert.Empty(t, value.AsBytes(value.Text("x"), 32))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "uint", value.NewUint(0).Kind().String())
	assert.Equal(t, "variant", value.None().Kind().String())
	assert.Equal(t, "unknown", value.Kind(99).String())
}

func TestCborRoundTrip(t *testing.T) {
	tree := value.Named(
		value.F("stash", value.Bytes([]byte{0xde, 0xad})),
		value.F("active", value.NewUint256(uint256.MustFromHex("0xffffffffffffffffffffffffffffffff"))),
		value.F("era", value.Some(value.NewUint(12))),
		value.F("blocked", value.Bool(false)),
		value.F("name", value.Text("pool")),
	)
	data, err := value.EncodeCBOR(tree)
	require.NoError(t, err)
	decoded, err := value.DecodeCBOR(data)
	require.NoError(t, err)

	active, ok := value.AsUint(mustAt(t, decoded, "active"))
	require.True(t, ok)
	assert.Equal(t, "0xffffffffffffffffffffffffffffffff", active.Hex())
	era, ok := value.AsUint64(mustAt(t, decoded, "era"))
	require.True(t, ok)
	assert.Equal(t, uint64(12), era)
	assert.Equal(t, []byte{0xde, 0xad}, value.AsBytes(mustAt(t, decoded, "stash"), 32))
	name, _ := value.AsText(mustAt(t, decoded, "name"))
	assert.Equal(t, "pool", name)
	// map keys come back sorted
	c, ok := decoded.(value.Composite)
	require.True(t, ok)
	assert.Equal(t, "active", c[0].Name)
	assert.Equal(t, "stash", c[len(c)-1].Name)
}

func cborRoundTrip(t *testing.T, n value.Node) value.Node {
	t.Helper()
	data, err := value.EncodeCBOR(n)
	require.NoError(t, err)
	ret, err := value.DecodeCBOR(data)
	require.NoError(t, err)
	return ret
}

func TestCborRoundTripCompositeShapes(t *testing.T) {
	testDefs := []struct {
		name string
		node value.Node
	}{
		{name: "single field tuple", node: value.Tuple(value.NewUint(50_000_000))},
		{name: "two field tuple", node: value.Tuple(value.NewUint(1), value.Text("a"))},
		{name: "empty composite", node: value.Tuple()},
		{
			name: "duplicate names",
			node: value.Named(value.F("x", value.NewUint(1)), value.F("x", value.NewUint(2))),
		},
		{
			name: "mixed names",
			node: value.Composite{{Name: "a", Value: value.Bool(true)}, {Value: value.NewUint(3)}},
		},
		{name: "variant with tuple fields", node: value.Some(value.Tuple(value.NewUint(9)))},
		{name: "none", node: value.None()},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Equal(t, testDef.node, cborRoundTrip(t, testDef.node))
		})
	}
}

func TestCborRoundTripNewtypes(t *testing.T) {
	prefs := value.Named(
		value.F("commission", value.Tuple(value.NewUint(50_000_000))),
		value.F("blocked", value.Bool(true)),
	)
	assert.Equal(
		t,
		staking.DecodeValidatorPrefs(prefs),
		staking.DecodeValidatorPrefs(cborRoundTrip(t, prefs)),
	)
	assert.Equal(t, uint32(50_000_000), staking.DecodeValidatorPrefs(cborRoundTrip(t, prefs)).Commission)

	raw := make([]byte, staking.AccountIDLength)
	for i := range raw {
		raw[i] = byte(i)
	}
	account, ok := staking.DecodeAccountID(cborRoundTrip(t, value.Tuple(value.Bytes(raw))))
	require.True(t, ok)
	assert.Equal(t, raw, account.Bytes())
}

func TestCborUnsupported(t *testing.T) {
	_, err := value.EncodeCBOR(value.Sequence{nil})
	assert.ErrorIs(t, err, value.ErrUnsupportedCbor)
	// -1
	_, err = value.DecodeCBOR([]byte{0x20})
	assert.ErrorIs(t, err, value.ErrUnsupportedCbor)
	// tag 1 (epoch time) wrapping 0
	_, err = value.DecodeCBOR([]byte{0xc1, 0x00})
	assert.ErrorIs(t, err, value.ErrUnsupportedCbor)
}

func mustAt(t *testing.T, n value.Node, name string) value.Node {
	t.Helper()
	ret, ok := value.At(n, name)
	require.True(t, ok, "missing field %s", name)
	return ret
}
