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
	_cbor "github.com/fxamacker/cbor/v2"
)

// Major types, read from the top 3 bits of the initial byte
const (
	CborTypeByteString uint8 = 0x40
	CborTypeArray      uint8 = 0x80
	CborTypeMap        uint8 = 0xa0
	CborTypeTag        uint8 = 0xc0
	CborTypeMask       uint8 = 0xe0

	CborTagPositiveBignum = 2
	CborTagNegativeBignum = 3
)

type (
	RawMessage = _cbor.RawMessage
	Tag        = _cbor.Tag
	RawTag     = _cbor.RawTag
)

// StructAsArray makes an embedding struct encode as a CBOR array
type StructAsArray struct {
	_ struct{} `cbor:",toarray"`
}
