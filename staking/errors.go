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

package staking

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned while reading or interpreting
// chain state matches exactly one of these with errors.Is
var (
	ErrConnection  = errors.New("connection error")
	ErrRpc         = errors.New("rpc error")
	ErrDecode      = errors.New("decode error")
	ErrInvalidData = errors.New("invalid data")
)

// DecodeError indicates a required field is present but has the wrong shape
type DecodeError struct {
	Field  string
	Reason string
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Field, e.Reason)
}

func (DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// InvalidDataError indicates a required value is missing or semantically impossible
type InvalidDataError struct {
	Reason string
}

func (e InvalidDataError) Error() string {
	return "invalid data: " + e.Reason
}

func (InvalidDataError) Is(target error) bool {
	return target == ErrInvalidData
}

// Category returns the user-visible category label for an error
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrRpc):
		return "rpc"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrInvalidData):
		return "invalid_data"
	default:
		return "unknown"
	}
}
