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

var decMode = sync.OnceValues(func() (_cbor.DecMode, error) {
	return _cbor.DecOptions{
		// runtime storage types nest deeper than the default of 32
		MaxNestedLevels: 256,
		BigIntDec:       _cbor.BigIntDecodeValue,
	}.DecMode()
})

// Decode parses the first CBOR item in data into dest and returns the number
// of bytes it used
func Decode(data []byte, dest any) (int, error) {
	dm, err := decMode()
	if err != nil {
		return 0, err
	}
	rest, err := dm.UnmarshalFirst(data, dest)
	if err != nil {
		return 0, err
	}
	return len(data) - len(rest), nil
}
