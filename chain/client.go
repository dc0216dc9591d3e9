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


// Package chain reads staking state from a Substrate node and encodes calls
// against the node's runtime metadata.
//
// Storage values are decoded into runtime-shaped structs and handed out as
// value trees, so the same decoders serve live queries and cached trees.
package chain

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/tx"
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

// DialFunc opens a Backend for a single endpoint
type DialFunc func(endpoint string) (Backend, error)

// TreeRecorder receives every storage value a Client decodes, named as by TreeName
type TreeRecorder func(name string, n value.Node)

type Client struct {
	backend  Backend
	endpoint string
	logger   *slog.Logger
	metrics  *Metrics
	dialer   DialFunc
	recorder TreeRecorder

	genesisMutex sync.Mutex
	genesisHash  *tx.Hash
}

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics specifies the request metrics to update
func WithMetrics(metrics *Metrics) ClientOptionFunc {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithDialer replaces the websocket dialer used by Dial
func WithDialer(dialer DialFunc) ClientOptionFunc {
	return func(c *Client) {
		c.dialer = dialer
	}
}

// WithTreeRecorder registers a function called with each decoded storage
// value. It may be called from several goroutines at once
func WithTreeRecorder(recorder TreeRecorder) ClientOptionFunc {
	return func(c *Client) {
		c.recorder = recorder
	}
}

func newClient(opts ...ClientOptionFunc) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.metrics == nil {
		c.metrics = NewMetrics()
	}
	if c.dialer == nil {
		c.dialer = func(endpoint string) (Backend, error) {
			return dialSubstrate(endpoint)
		}
	}
	return c
}

// NewClient returns a Client using an already connected backend
func NewClient(backend Backend, opts ...ClientOptionFunc) *Client {
	c := newClient(opts...)
	c.backend = backend
	return c
}

// Dial connects to the first reachable endpoint, trying them in order
func Dial(ctx context.Context, endpoints []string, opts ...ClientOptionFunc) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, ConnectionError{Err: ErrNoEndpoints}
	}
	c := newClient(opts...)
	var lastErr error
	for _, endpoint := range endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.logger.Info(
			"connecting",
			"component", "chain",
			"endpoint", endpoint,
		)
		backend, err := c.dialer(endpoint)
		if err != nil {
			c.logger.Warn(
				"connection failed",
				"component", "chain",
				"endpoint", endpoint,
				"error", err,
			)
			lastErr = ConnectionError{Endpoint: endpoint, Err: err}
			continue
		}
		c.backend = backend
		c.endpoint = endpoint
		return c, nil
	}
	return nil, lastErr
}

// Endpoint returns the endpoint the client is connected to
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Close() {
	c.backend.Close()
}

func (c *Client) request(ctx context.Context, method string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := c.metrics.Latency(method)
	err := fn()
	timer.ObserveDuration()
	c.metrics.observe(method, err)
	if err != nil {
		return RpcError{Method: method, Err: err}
	}
	return nil
}

// ChainName returns the chain name reported by the node
func (c *Client) ChainName(ctx context.Context) (string, error) {
	var ret string
	err := c.request(ctx, "system_chain", func() error {
		var err error
		ret, err = c.backend.ChainName()
		return err
	})
	return ret, err
}

// VerifyChain checks that the node's chain name mentions the network name,
// such as "Polkadot Asset Hub" for polkadot
func (c *Client) VerifyChain(ctx context.Context, network string) error {
	name, err := c.ChainName(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(name), strings.ToLower(network)) {
		return fmt.Errorf("%w: %q is not %s", ErrChainMismatch, name, network)
	}
	return nil
}

// GenesisHash returns the hash of block 0. The result is cached
func (c *Client) GenesisHash(ctx context.Context) (tx.Hash, error) {
	c.genesisMutex.Lock()
	defer c.genesisMutex.Unlock()
	if c.genesisHash != nil {
		return *c.genesisHash, nil
	}
	var hash types.Hash
	err := c.request(ctx, "chain_getBlockHash", func() error {
		var err error
		hash, err = c.backend.BlockHash(0)
		return err
	})
	if err != nil {
		return tx.Hash{}, err
	}
	ret := tx.Hash(hash)
	c.genesisHash = &ret
	return ret, nil
}

func (c *Client) LatestBlock(ctx context.Context) (uint64, tx.Hash, error) {
	var number uint64
	var hash types.Hash
	err := c.request(ctx, "chain_getHeader", func() error {
		var err error
		number, hash, err = c.backend.LatestBlock()
		return err
	})
	if err != nil {
		return 0, tx.Hash{}, err
	}
	return number, tx.Hash(hash), nil
}

func (c *Client) RuntimeVersion(ctx context.Context) (tx.RuntimeVersion, error) {
	var rv types.RuntimeVersion
	err := c.request(ctx, "state_getRuntimeVersion", func() error {
		var err error
		rv, err = c.backend.RuntimeVersion()
		return err
	})
	if err != nil {
		return tx.RuntimeVersion{}, err
	}
	return tx.RuntimeVersion{
		SpecVersion:        uint32(rv.SpecVersion),
		TransactionVersion: uint32(rv.TransactionVersion),
	}, nil
}

// TransactionExtensions returns the extension identifiers from the runtime metadata
func (c *Client) TransactionExtensions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ret, err := c.backend.SignedExtensions()
	if err != nil {
		return nil, RpcError{Method: "metadata.extrinsic", Err: err}
	}
	return ret, nil
}

// ConstantU64 returns a runtime constant of up to 64 bits. Wider constants
// are accepted when the upper bytes are zero
func (c *Client) ConstantU64(pallet string, name string) (uint64, error) {
	raw, err := c.backend.Constant(pallet, name)
	if err != nil {
		return 0, err
	}
	return decodeConstant(raw)
}

func decodeConstant(raw []byte) (uint64, error) {
	switch len(raw) {
	case 1:
		return uint64(raw[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(raw)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(raw)), nil
	case 8:
		return binary.LittleEndian.Uint64(raw), nil
	case 16:
		for _, b := range raw[8:] {
			if b != 0 {
				return 0, ErrConstantTooWide
			}
		}
		return binary.LittleEndian.Uint64(raw[:8]), nil
	default:
		return 0, fmt.Errorf("unexpected constant length %d", len(raw))
	}
}

// AccountKey returns the storage map key for an account
func AccountKey(account staking.AccountID) []byte {
	return account.Bytes()
}

// U32Key returns the storage map key for an era index or pool ID
func U32Key(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// Query reads a storage item and returns it as a value tree. A missing
// entry returns a nil node and no error
func (c *Client) Query(ctx context.Context, item Item, keys ...[]byte) (value.Node, error) {
	var raw []byte
	err := c.request(ctx, "state_getStorage", func() error {
		var err error
		raw, err = c.backend.Storage(item.Pallet, item.Name, keys...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", item, err)
	}
	if raw == nil {
		return nil, nil
	}
	ret, err := item.decode(raw)
	if err != nil {
		return nil, staking.DecodeError{Field: item.String(), Reason: err.Error()}
	}
	if c.recorder != nil {
		c.recorder(TreeName(item, keys...), ret)
	}
	return ret, nil
}

// TreeName names a storage value as "Pallet.Item/<hex of the encoded keys>"
func TreeName(item Item, keys ...[]byte) string {
	return fmt.Sprintf("%s/%x", item, bytes.Join(keys, nil))
}

// storageKeys lists the encoded keys of a storage map in byte order, keeping
// at most limit of them
func (c *Client) storageKeys(ctx context.Context, item Item, limit int) ([][]byte, error) {
	var ret [][]byte
	err := c.request(ctx, "state_getKeys", func() error {
		var err error
		ret, err = c.backend.StorageKeys(item.Pallet, item.Name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", item, err)
	}
	slices.SortFunc(ret, bytes.Compare)
	if len(ret) > limit {
		c.logger.Warn(
			"storage map has more entries than the read limit",
			"component", "chain",
			"item", item.String(),
			"entries", len(ret),
			"limit", limit,
		)
		ret = ret[:limit]
	}
	return ret, nil
}

// AccountRecord returns the System.Account tree of an account
func (c *Client) AccountRecord(ctx context.Context, account staking.AccountID) (value.Node, error) {
	return c.Query(ctx, ItemSystemAccount, AccountKey(account))
}

// EncodeCall encodes a call as pallet index, call index and SCALE arguments
func (c *Client) EncodeCall(call tx.Call) ([]byte, error) {
	args := make([]any, 0, len(call.Args))
	for idx, arg := range call.Args {
		converted, err := convertArg(arg)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", call.Name(), idx, err)
		}
		args = append(args, converted)
	}
	encoded, err := c.backend.NewCall(call.Name(), args...)
	if err != nil {
		return nil, err
	}
	return codec.Encode(encoded)
}
