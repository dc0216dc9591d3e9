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

package tx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/value"
)

// RuntimeVersion holds the versions a signature commits to
type RuntimeVersion struct {
	SpecVersion        uint32
	TransactionVersion uint32
}

// ChainReader provides the chain state needed to build a transaction
type ChainReader interface {
	GenesisHash(ctx context.Context) (Hash, error)
	// LatestBlock returns the number and hash of the most recent block
	LatestBlock(ctx context.Context) (uint64, Hash, error)
	RuntimeVersion(ctx context.Context) (RuntimeVersion, error)
	// AccountRecord returns the System.Account value tree, or nil if the account does not exist
	AccountRecord(ctx context.Context, account staking.AccountID) (value.Node, error)
}

// ExtensionReader is implemented by a ChainReader that can report the
// transaction extensions declared by the runtime
type ExtensionReader interface {
	TransactionExtensions(ctx context.Context) ([]string, error)
}

// CallEncoder turns a call into opaque, runtime-specific call bytes
type CallEncoder interface {
	EncodeCall(call Call) ([]byte, error)
}

var ErrNoCallData = errors.New("call encoder returned no call data")

// Builder assembles unsigned payloads. It only reads chain state
type Builder struct {
	reader       ChainReader
	encoder      CallEncoder
	logger       *slog.Logger
	mortalPeriod uint64
	immortal     bool
}

// BuilderOptionFunc is a type that represents functions that modify the Builder config
type BuilderOptionFunc func(*Builder)

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) BuilderOptionFunc {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithMortalPeriod uses a mortal era of the given period, phased on the latest block
func WithMortalPeriod(period uint64) BuilderOptionFunc {
	return func(b *Builder) {
		b.mortalPeriod = period
		b.immortal = false
	}
}

// WithImmortal builds transactions that never expire
func WithImmortal() BuilderOptionFunc {
	return func(b *Builder) {
		b.immortal = true
	}
}

func NewBuilder(reader ChainReader, encoder CallEncoder, opts ...BuilderOptionFunc) *Builder {
	b := &Builder{
		reader:  reader,
		encoder: encoder,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build gathers call data, genesis hash, latest block, runtime versions, the
// signer nonce and the era, in that order. Any failure aborts the build.
// Without options the era is mortal with period 64 and phase 0
func (b *Builder) Build(ctx context.Context, signer staking.AccountID, call Call) (*UnsignedPayload, error) {
	callData, err := b.encoder.EncodeCall(call)
	if err != nil {
		return nil, fmt.Errorf("encode call %s: %w", call.Name(), err)
	}
	if len(callData) == 0 {
		return nil, fmt.Errorf("encode call %s: %w", call.Name(), ErrNoCallData)
	}
	genesisHash, err := b.reader.GenesisHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("genesis hash: %w", err)
	}
	blockNumber, blockHash, err := b.reader.LatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}
	version, err := b.reader.RuntimeVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("runtime version: %w", err)
	}
	record, err := b.reader.AccountRecord(ctx, signer)
	if err != nil {
		return nil, fmt.Errorf("signer account: %w", err)
	}
	nonce, err := staking.DecodeNonce(record)
	if err != nil {
		return nil, fmt.Errorf("signer nonce: %w", err)
	}
	var extensions Extensions
	if er, ok := b.reader.(ExtensionReader); ok {
		names, err := er.TransactionExtensions(ctx)
		if err != nil {
			return nil, fmt.Errorf("transaction extensions: %w", err)
		}
		for _, name := range names {
			switch name {
			case "CheckMetadataHash":
				extensions.CheckMetadataHash = true
			case "ChargeAssetTxPayment":
				extensions.ChargeAssetTxPayment = true
			}
		}
	}
	era := Mortal(DefaultMortalPeriod, 0)
	switch {
	case b.immortal:
		era = Immortal()
		blockHash = genesisHash
	case b.mortalPeriod > 0:
		era = MortalAt(b.mortalPeriod, blockNumber)
	}
	ret := &UnsignedPayload{
		CallData:    callData,
		Description: call.Description,
		GenesisHash: genesisHash,
		BlockHash:   blockHash,
		SpecVersion: version.SpecVersion,
		TxVersion:   version.TransactionVersion,
		Nonce:       nonce,
		Era:         era,
		Extensions:  extensions,
	}
	b.logger.Debug(
		"built unsigned payload",
		"component", "tx",
		"call", call.Name(),
		"signer", signer.String(),
		"nonce", nonce,
		"era", era.String(),
		"block", blockNumber,
	)
	return ret, nil
}
