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
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

var encMode = sync.OnceValues(func() (_cbor.EncMode, error) {
	return _cbor.EncOptions{
		Sort:          _cbor.SortCoreDeterministic,
		BigIntConvert: _cbor.BigIntConvertShortest,
	}.EncMode()
})

// Encode serializes data with map keys in core deterministic order, so equal
// values always encode to equal bytes
func Encode(data any) ([]byte, error) {
	em, err := encMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(data)
}
