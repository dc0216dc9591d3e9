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


package chain

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/stakeopt/staking"
)

var (
	ErrNoEndpoints      = errors.New("no endpoints configured")
	ErrConstantNotFound = errors.New("runtime constant not found")
	ErrConstantTooWide  = errors.New("runtime constant does not fit into 64 bits")
	ErrUnsupportedArg   = errors.New("unsupported call argument")
	ErrMetadataVersion  = errors.New("unsupported metadata version")
	ErrStorageNotFound  = errors.New("storage item not found")
	ErrNotSingleMap     = errors.New("storage item is not a single key map")
	ErrOpaqueMapKeys    = errors.New("storage map keys are hashed without the key")
	ErrChainMismatch    = errors.New("connected chain does not match the network")
)

// ConnectionError is returned when no endpoint could be reached
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Endpoint, e.Err)
}

func (e ConnectionError) Unwrap() error {
	return e.Err
}

func (ConnectionError) Is(target error) bool {
	return target == staking.ErrConnection
}

// RpcError is returned when a node request fails or returns garbage
type RpcError struct {
	Method string
	Err    error
}

func (e RpcError) Error() string {
	return fmt.Sprintf("rpc %s: %v", e.Method, e.Err)
}

func (e RpcError) Unwrap() error {
	return e.Err
}

func (RpcError) Is(target error) bool {
	return target == staking.ErrRpc
}
