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

package cbor

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrEmptyValue    = errors.New("empty CBOR value")
	ErrUnhashableKey = errors.New("CBOR map key cannot be used as a Go map key")
)

// Value decodes arbitrary CBOR into plain Go values: maps become map[any]any,
// arrays []any, byte strings ByteString, bignums big.Int and other tags Tag
type Value struct {
	Value any
}

func (v *Value) UnmarshalCBOR(data []byte) error {
	tmp, err := decodeGeneric(data)
	if err != nil {
		return err
	}
	v.Value = tmp
	return nil
}

func decodeGeneric(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, ErrEmptyValue
	}
	switch data[0] & CborTypeMask {
	case CborTypeMap:
		return decodeMap(data)
	case CborTypeArray:
		var items []RawMessage
		if _, err := Decode(data, &items); err != nil {
			return nil, err
		}
		ret := make([]any, 0, len(items))
		for _, item := range items {
			tmp, err := decodeGeneric(item)
			if err != nil {
				return nil, err
			}
			ret = append(ret, tmp)
		}
		return ret, nil
	case CborTypeByteString:
		var ret ByteString
		if _, err := Decode(data, &ret); err != nil {
			return nil, err
		}
		return ret, nil
	case CborTypeTag:
		var tag RawTag
		if _, err := Decode(data, &tag); err != nil {
			return nil, err
		}
		if tag.Number == CborTagPositiveBignum || tag.Number == CborTagNegativeBignum {
			var ret big.Int
			if _, err := Decode(data, &ret); err != nil {
				return nil, err
			}
			return ret, nil
		}
		content, err := decodeGeneric(tag.Content)
		if err != nil {
			return nil, fmt.Errorf("tag %d: %w", tag.Number, err)
		}
		return Tag{Number: tag.Number, Content: content}, nil
	default:
		var ret any
		if _, err := Decode(data, &ret); err != nil {
			return nil, err
		}
		return ret, nil
	}
}

func decodeMap(data []byte) (ret any, err error) {
	// inserting a key holding a slice or map panics
	defer func() {
		if r := recover(); r != nil {
			ret = nil
			err = fmt.Errorf("%w: %v", ErrUnhashableKey, r)
		}
	}()
	var entries map[Value]RawMessage
	if _, err := Decode(data, &entries); err != nil {
		return nil, err
	}
	m := make(map[any]any, len(entries))
	for key, raw := range entries {
		tmp, err := decodeGeneric(raw)
		if err != nil {
			return nil, err
		}
		m[key.Value] = tmp
	}
	return m, nil
}
