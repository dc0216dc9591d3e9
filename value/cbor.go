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
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/blinklabs-io/stakeopt/cbor"
)

// CborTagVariant is the CBOR tag used to mark an encoded Variant. The tag
// content is a 2-element array of the variant name and its fields
const CborTagVariant = 27

// CborTagComposite marks a Composite that is not a plain set of unique named
// fields. The tag content is an array of field names ("" when unnamed)
// followed by an array of the field values
const CborTagComposite = 28

var ErrUnsupportedCbor = errors.New("unsupported CBOR value")

// EncodeCBOR serializes a value tree. Composites with only unique named fields
// are written as maps and therefore come back with their fields in sorted key
// order. Other composites keep their field order
func EncodeCBOR(n Node) ([]byte, error) {
	tmp, err := toCborValue(n)
	if err != nil {
		return nil, err
	}
	return cbor.Encode(tmp)
}

// DecodeCBOR parses a value tree previously written by EncodeCBOR or produced
// by any other CBOR source using the same conventions
func DecodeCBOR(data []byte) (Node, error) {
	var tmp cbor.Value
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return nil, err
	}
	return fromCborValue(tmp.Value)
}

func toCborValue(n Node) (any, error) {
	switch v := n.(type) {
	case Uint:
		if v.v.IsUint64() {
			return v.v.Uint64(), nil
		}
		return v.v.ToBig(), nil
	case Bool:
		return bool(v), nil
	case Text:
		return string(v), nil
	case Sequence:
		ret := make([]any, 0, len(v))
		for _, child := range v {
			tmp, err := toCborValue(child)
			if err != nil {
				return nil, err
			}
			ret = append(ret, tmp)
		}
		return ret, nil
	case Composite:
		return compositeToCbor(v)
	case Variant:
		fields, err := compositeToCbor(v.Fields)
		if err != nil {
			return nil, err
		}
		return cbor.Tag{
			Number:  CborTagVariant,
			Content: []any{v.Name, fields},
		}, nil
	case nil:
		return nil, fmt.Errorf("%w: nil node", ErrUnsupportedCbor)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedCbor, n)
	}
}

func compositeToCbor(c Composite) (any, error) {
	named := len(c) > 0
	seen := make(map[string]struct{}, len(c))
	for _, f := range c {
		if f.Name == "" {
			named = false
			break
		}
		if _, ok := seen[f.Name]; ok {
			named = false
			break
		}
		seen[f.Name] = struct{}{}
	}
	if named {
		ret := make(map[string]any, len(c))
		for _, f := range c {
			tmp, err := toCborValue(f.Value)
			if err != nil {
				return nil, err
			}
			ret[f.Name] = tmp
		}
		return ret, nil
	}
	// names and order survive in a tagged pair of arrays
	names := make([]any, 0, len(c))
	values := make([]any, 0, len(c))
	for _, f := range c {
		tmp, err := toCborValue(f.Value)
		if err != nil {
			return nil, err
		}
		names = append(names, f.Name)
		values = append(values, tmp)
	}
	return cbor.Tag{
		Number:  CborTagComposite,
		Content: []any{names, values},
	}, nil
}

func fromCborValue(v any) (Node, error) {
	switch t := v.(type) {
	case uint64:
		return NewUint(t), nil
	case int64:
		if t < 0 {
			return nil, fmt.Errorf("%w: negative integer %d", ErrUnsupportedCbor, t)
		}
		return NewUint(uint64(t)), nil
	case big.Int:
		ret, ok := NewUintFromBig(&t)
		if !ok {
			return nil, fmt.Errorf("%w: integer out of range", ErrUnsupportedCbor)
		}
		return ret, nil
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case cbor.ByteString:
		return Bytes(t.Bytes()), nil
	case []any:
		ret := make(Sequence, 0, len(t))
		for _, child := range t {
			tmp, err := fromCborValue(child)
			if err != nil {
				return nil, err
			}
			ret = append(ret, tmp)
		}
		return ret, nil
	case map[any]any:
		return compositeFromCbor(t)
	case cbor.Tag:
		switch t.Number {
		case CborTagVariant:
			return variantFromCbor(t.Content)
		case CborTagComposite:
			return taggedCompositeFromCbor(t.Content)
		}
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedCbor, t.Number)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedCbor, v)
	}
}

func compositeFromCbor(m map[any]any) (Composite, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		name, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-text field name", ErrUnsupportedCbor)
		}
		keys = append(keys, name)
	}
	slices.Sort(keys)
	ret := make(Composite, 0, len(keys))
	for _, k := range keys {
		tmp, err := fromCborValue(m[k])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		ret = append(ret, Field{Name: k, Value: tmp})
	}
	return ret, nil
}

func variantFromCbor(v any) (Node, error) {
	content, ok := v.([]any)
	if !ok || len(content) != 2 {
		return nil, fmt.Errorf("%w: malformed variant", ErrUnsupportedCbor)
	}
	name, ok := content[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: variant name is not text", ErrUnsupportedCbor)
	}
	fields, err := fromCborValue(content[1])
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", name, err)
	}
	ret := Variant{Name: name}
	switch f := fields.(type) {
	case Composite:
		if len(f) > 0 {
			ret.Fields = f
		}
	case Sequence:
		for _, field := range f {
			ret.Fields = append(ret.Fields, Field{Value: field})
		}
	default:
		return nil, fmt.Errorf("%w: malformed variant fields", ErrUnsupportedCbor)
	}
	return ret, nil
}

func taggedCompositeFromCbor(v any) (Node, error) {
	content, ok := v.([]any)
	if !ok || len(content) != 2 {
		return nil, fmt.Errorf("%w: malformed composite", ErrUnsupportedCbor)
	}
	names, ok := content[0].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: malformed composite names", ErrUnsupportedCbor)
	}
	values, ok := content[1].([]any)
	if !ok || len(values) != len(names) {
		return nil, fmt.Errorf("%w: malformed composite values", ErrUnsupportedCbor)
	}
	ret := make(Composite, 0, len(values))
	for i, raw := range values {
		name, ok := names[i].(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-text field name", ErrUnsupportedCbor)
		}
		tmp, err := fromCborValue(raw)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		ret = append(ret, Field{Name: name, Value: tmp})
	}
	return ret, nil
}
