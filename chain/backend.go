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
	"fmt"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/xxhash"
)

// Backend is the node connection used by a Client. Calls block until the
// node answers
type Backend interface {
	// Storage returns the raw SCALE encoded value of a storage item, or nil
	// if it does not exist. Keys are the SCALE encoded map keys
	Storage(pallet string, item string, keys ...[]byte) ([]byte, error)
	// StorageKeys returns the SCALE encoded keys of every entry of a single
	// key storage map
	StorageKeys(pallet string, item string) ([][]byte, error)
	// Constant returns the raw SCALE encoded value of a runtime constant
	Constant(pallet string, name string) ([]byte, error)
	BlockHash(number uint64) (types.Hash, error)
	LatestBlock() (uint64, types.Hash, error)
	RuntimeVersion() (types.RuntimeVersion, error)
	// SignedExtensions returns the transaction extension identifiers in declaration order
	SignedExtensions() ([]string, error)
	NewCall(name string, args ...any) (types.Call, error)
	ChainName() (string, error)
	Close()
}

// substrateBackend talks to a node over websocket using the runtime metadata
// fetched at connect time
type substrateBackend struct {
	api  *gsrpc.SubstrateAPI
	meta *types.Metadata
}

func dialSubstrate(endpoint string) (*substrateBackend, error) {
	api, err := gsrpc.NewSubstrateAPI(endpoint)
	if err != nil {
		return nil, err
	}
	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		api.Client.Close()
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	if meta.Version != 14 {
		api.Client.Close()
		return nil, fmt.Errorf("%w: %d", ErrMetadataVersion, meta.Version)
	}
	return &substrateBackend{api: api, meta: meta}, nil
}

func (b *substrateBackend) Storage(pallet string, item string, keys ...[]byte) ([]byte, error) {
	key, err := types.CreateStorageKey(b.meta, pallet, item, keys...)
	if err != nil {
		return nil, err
	}
	raw, err := b.api.RPC.State.GetStorageRawLatest(key)
	if err != nil {
		return nil, err
	}
	if raw == nil || len(*raw) == 0 {
		return nil, nil
	}
	return *raw, nil
}

func (b *substrateBackend) StorageKeys(pallet string, item string) ([][]byte, error) {
	hashLen, err := b.mapHasherLength(pallet, item)
	if err != nil {
		return nil, err
	}
	prefix := make(types.StorageKey, 0, 32)
	prefix = append(prefix, xxhash.New128([]byte(pallet)).Sum(nil)...)
	prefix = append(prefix, xxhash.New128([]byte(item)).Sum(nil)...)
	keys, err := b.api.RPC.State.GetKeysLatest(prefix)
	if err != nil {
		return nil, err
	}
	ret := make([][]byte, 0, len(keys))
	for _, key := range keys {
		if len(key) <= len(prefix)+hashLen {
			continue
		}
		ret = append(ret, []byte(key[len(prefix)+hashLen:]))
	}
	return ret, nil
}

// mapHasherLength returns how many hash bytes precede the encoded key of a
// single key map. Only hashers that keep the key readable are accepted
func (b *substrateBackend) mapHasherLength(pallet string, item string) (int, error) {
	for _, p := range b.meta.AsMetadataV14.Pallets {
		if string(p.Name) != pallet || !p.HasStorage {
			continue
		}
		for _, entry := range p.Storage.Items {
			if string(entry.Name) != item {
				continue
			}
			if !entry.Type.IsMap || len(entry.Type.AsMap.Hashers) != 1 {
				return 0, fmt.Errorf("%w: %s.%s", ErrNotSingleMap, pallet, item)
			}
			hasher := entry.Type.AsMap.Hashers[0]
			switch {
			case hasher.IsTwox64Concat:
				return 8, nil
			case hasher.IsBlake2_128Concat:
				return 16, nil
			case hasher.IsIdentity:
				return 0, nil
			}
			return 0, fmt.Errorf("%w: %s.%s", ErrOpaqueMapKeys, pallet, item)
		}
	}
	return 0, fmt.Errorf("%w: %s.%s", ErrStorageNotFound, pallet, item)
}

func (b *substrateBackend) Constant(pallet string, name string) ([]byte, error) {
	for _, p := range b.meta.AsMetadataV14.Pallets {
		if string(p.Name) != pallet {
			continue
		}
		for _, c := range p.Constants {
			if string(c.Name) == name {
				return c.Value, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrConstantNotFound, pallet, name)
}

func (b *substrateBackend) BlockHash(number uint64) (types.Hash, error) {
	return b.api.RPC.Chain.GetBlockHash(number)
}

func (b *substrateBackend) LatestBlock() (uint64, types.Hash, error) {
	hash, err := b.api.RPC.Chain.GetBlockHashLatest()
	if err != nil {
		return 0, types.Hash{}, err
	}
	header, err := b.api.RPC.Chain.GetHeader(hash)
	if err != nil {
		return 0, types.Hash{}, err
	}
	return uint64(header.Number), hash, nil
}

func (b *substrateBackend) RuntimeVersion() (types.RuntimeVersion, error) {
	rv, err := b.api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return types.RuntimeVersion{}, err
	}
	return *rv, nil
}

func (b *substrateBackend) SignedExtensions() ([]string, error) {
	exts := b.meta.AsMetadataV14.Extrinsic.SignedExtensions
	ret := make([]string, 0, len(exts))
	for _, ext := range exts {
		ret = append(ret, string(ext.Identifier))
	}
	return ret, nil
}

func (b *substrateBackend) NewCall(name string, args ...any) (types.Call, error) {
	return types.NewCall(b.meta, name, args...)
}

func (b *substrateBackend) ChainName() (string, error) {
	name, err := b.api.RPC.System.Chain()
	if err != nil {
		return "", err
	}
	return string(name), nil
}

func (b *substrateBackend) Close() {
	b.api.Client.Close()
}
