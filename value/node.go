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
	"math/big"

	"github.com/holiman/uint256"
)

type Kind uint8

const (
	KindUint Kind = iota + 1
	KindBool
	KindText
	KindSequence
	KindComposite
	KindVariant
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindComposite:
		return "composite"
	case KindVariant:
		return "variant"
	default:
		return "unknown"
	}
}

// Node is a single node of a value tree
type Node interface {
	Kind() Kind
}

// Uint is an unsigned integer scalar of up to 256 bits
type Uint struct {
	v uint256.Int
}

func NewUint(v uint64) Uint {
	var ret Uint
	ret.v.SetUint64(v)
	return ret
}

func NewUint256(v *uint256.Int) Uint {
	var ret Uint
	ret.v.Set(v)
	return ret
}

// NewUintFromBig returns a Uint for the provided big.Int. It returns false if the
// value is negative or does not fit into 256 bits
func NewUintFromBig(v *big.Int) (Uint, bool) {
	if v == nil || v.Sign() < 0 {
		return Uint{}, false
	}
	var ret Uint
	if overflow := ret.v.SetFromBig(v); overflow {
		return Uint{}, false
	}
	return ret, true
}

func (Uint) Kind() Kind { return KindUint }

// Value returns a copy of the integer value
func (u Uint) Value() uint256.Int {
	return u.v
}

type Bool bool

func (Bool) Kind() Kind { return KindBool }

type Text string

func (Text) Kind() Kind { return KindText }

// Sequence is an ordered list of nodes addressed by position
type Sequence []Node

func (Sequence) Kind() Kind { return KindSequence }

// Field is a single entry of a Composite. Unnamed (tuple-like) fields have an empty Name
type Field struct {
	Name  string
	Value Node
}

// Composite is a struct- or tuple-like node. Fields are addressable by name and by position
type Composite []Field

func (Composite) Kind() Kind { return KindComposite }

// Variant is an enum-like node holding the selected variant name and its fields
type Variant struct {
	Name   string
	Fields Composite
}

func (Variant) Kind() Kind { return KindVariant }

// Bytes returns a sequence of byte-sized Uint nodes, which is how fixed-size
// byte arrays such as account identifiers appear in decoded storage
func Bytes(data []byte) Sequence {
	ret := make(Sequence, len(data))
	for i, b := range data {
		ret[i] = NewUint(uint64(b))
	}
	return ret
}

// Named builds a Composite from named fields
func Named(fields ...Field) Composite {
	return Composite(fields)
}

// F is shorthand for a named Field
func F(name string, v Node) Field {
	return Field{Name: name, Value: v}
}

// Tuple builds a Composite with unnamed fields
func Tuple(values ...Node) Composite {
	ret := make(Composite, len(values))
	for i, v := range values {
		ret[i] = Field{Value: v}
	}
	return ret
}

// Some wraps a node in the "Some" variant used for optional values
func Some(v Node) Variant {
	return Variant{Name: "Some", Fields: Tuple(v)}
}

// None returns the empty "None" variant used for optional values
func None() Variant {
	return Variant{Name: "None"}
}
