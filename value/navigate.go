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

package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// At returns the named field of a composite or variant node
func At(n Node, name string) (Node, bool) {
	switch v := n.(type) {
	case Composite:
		for _, f := range v {
			if f.Name == name {
				return f.Value, f.Value != nil
			}
		}
	case Variant:
		return At(v.Fields, name)
	}
	return nil, false
}

// Index returns the node at the given position of a sequence, composite or variant
func Index(n Node, idx int) (Node, bool) {
	if idx < 0 {
		return nil, false
	}
	switch v := n.(type) {
	case Sequence:
		if idx < len(v) && v[idx] != nil {
			return v[idx], true
		}
	case Composite:
		if idx < len(v) && v[idx].Value != nil {
			return v[idx].Value, true
		}
	case Variant:
		return Index(v.Fields, idx)
	}
	return nil, false
}

// Path walks a dotted path of field names and numeric positions, such as
// "data.free" or "unlocking.3.value". A numeric segment is tried as a field
// name first and then as a position
func Path(n Node, path string) (Node, bool) {
	if n == nil {
		return nil, false
	}
	if path == "" {
		return n, true
	}
	cur := n
	for seg := range strings.SplitSeq(path, ".") {
		next, ok := At(cur, seg)
		if !ok {
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil, false
			}
			next, ok = Index(cur, idx)
			if !ok {
				return nil, false
			}
		}
		cur = next
	}
	return cur, true
}

// Len returns the number of positional children of a node
func Len(n Node) int {
	switch v := n.(type) {
	case Sequence:
		return len(v)
	case Composite:
		return len(v)
	case Variant:
		return len(v.Fields)
	}
	return 0
}

// Unwrap strips "Some" variants and single-field composites until it reaches
// a node that is neither
func Unwrap(n Node) Node {
	for {
		switch v := n.(type) {
		case Variant:
			if v.Name != "Some" || len(v.Fields) != 1 {
				return n
			}
			n = v.Fields[0].Value
		case Composite:
			if len(v) != 1 {
				return n
			}
			n = v[0].Value
		default:
			return n
		}
	}
}

// AsUint returns the integer value of a node. Wrapper composites and "Some"
// variants around a scalar are looked through
func AsUint(n Node) (uint256.Int, bool) {
	if u, ok := Unwrap(n).(Uint); ok {
		return u.v, true
	}
	return uint256.Int{}, false
}

// AsUint64 returns the integer value of a node if it fits into 64 bits
func AsUint64(n Node) (uint64, bool) {
	v, ok := AsUint(n)
	if !ok || !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// AsUint32 returns the integer value of a node if it fits into 32 bits
func AsUint32(n Node) (uint32, bool) {
	v, ok := AsUint64(n)
	if !ok || v > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true // #nosec G115
}

func AsBool(n Node) (bool, bool) {
	b, ok := Unwrap(n).(Bool)
	return bool(b), ok
}

func AsText(n Node) (string, bool) {
	t, ok := Unwrap(n).(Text)
	return string(t), ok
}

// VariantName returns the selected variant name of an enum-like node
func VariantName(n Node) (string, bool) {
	v, ok := n.(Variant)
	if !ok {
		return "", false
	}
	return v.Name, true
}

// AsBytes reads up to limit positional byte values from a node. Reading stops
// at the first missing position or at the first element that is not a byte
func AsBytes(n Node, limit int) []byte {
	ret := make([]byte, 0, min(Len(n), limit))
	for i := range limit {
		child, ok := Index(n, i)
		if !ok {
			break
		}
		b, ok := AsUint64(child)
		if !ok || b > math.MaxUint8 {
			break
		}
		ret = append(ret, byte(b))
	}
	return ret
}
