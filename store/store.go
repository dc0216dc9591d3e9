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


// Package store keeps account snapshots, validator era samples and raw value
// trees in a local pebble database, namespaced by network.
package store

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/blinklabs-io/stakeopt/yield"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var ErrNotFound = errors.New("not found")

const (
	prefixSnapshot = "snap"
	prefixHistory  = "hist"
	prefixTree     = "tree"
	prefixPending  = "pend"
)

type Store struct {
	db       *pebble.DB
	network  string
	logger   *slog.Logger
	inMemory bool
}

// StoreOptionFunc is a type that represents functions that modify the Store config
type StoreOptionFunc func(*Store)

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) StoreOptionFunc {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithInMemory keeps the database in memory. The directory is ignored
func WithInMemory() StoreOptionFunc {
	return func(s *Store) {
		s.inMemory = true
	}
}

// Open opens or creates the database in dir. All keys written and read are
// scoped to network
func Open(dir string, network string, opts ...StoreOptionFunc) (*Store, error) {
	s := &Store{network: network}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	pebbleOpts := &pebble.Options{}
	if s.inMemory {
		pebbleOpts.FS = vfs.NewMem()
		dir = ""
	}
	db, err := pebble.Open(dir, pebbleOpts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.db = db
	s.logger.Debug(
		"opened store",
		"component", "store",
		"dir", dir,
		"network", network,
	)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) key(prefix string, parts ...string) []byte {
	ret := []byte(prefix + "/" + s.network)
	for _, part := range parts {
		ret = append(ret, '/')
		ret = append(ret, part...)
	}
	return ret
}

func (s *Store) historyPrefix(validator staking.AccountID) []byte {
	return append(s.key(prefixHistory, hex.EncodeToString(validator.Bytes())), '/')
}

func (s *Store) historyKey(validator staking.AccountID, era uint32) []byte {
	return binary.BigEndian.AppendUint32(s.historyPrefix(validator), era)
}

// upperBound returns the smallest key greater than every key starting with prefix
func upperBound(prefix []byte) []byte {
	ret := make([]byte, len(prefix))
	copy(ret, prefix)
	for i := len(ret) - 1; i >= 0; i-- {
		if ret[i] < 0xff {
			ret[i]++
			return ret[:i+1]
		}
	}
	return nil
}

func (s *Store) get(key []byte, fn func([]byte) error) error {
	data, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	defer closer.Close()
	return fn(data)
}

// PutTree stores a raw value tree under a name such as "System.Account/<account>"
func (s *Store) PutTree(name string, n value.Node) error {
	data, err := value.EncodeCBOR(n)
	if err != nil {
		return fmt.Errorf("encode tree %s: %w", name, err)
	}
	return s.db.Set(s.key(prefixTree, name), data, pebble.Sync)
}

func (s *Store) Tree(name string) (value.Node, error) {
	var ret value.Node
	err := s.get(s.key(prefixTree, name), func(data []byte) error {
		var err error
		ret, err = value.DecodeCBOR(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// PutSnapshot stores the latest snapshot of an account, replacing any previous one
func (s *Store) PutSnapshot(snap *staking.AccountSnapshot, takenAt time.Time) error {
	data, err := value.EncodeCBOR(snapshotNode(snap, takenAt))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.db.Set(s.key(prefixSnapshot, snap.Account.String()), data, pebble.Sync); err != nil {
		return err
	}
	s.logger.Debug(
		"stored account snapshot",
		"component", "store",
		"account", snap.Account.String(),
		"era", snap.ActiveEra,
	)
	return nil
}

// Snapshot returns the stored snapshot of an account and when it was taken
func (s *Store) Snapshot(account staking.AccountID) (*staking.AccountSnapshot, time.Time, error) {
	var ret *staking.AccountSnapshot
	var takenAt time.Time
	err := s.get(s.key(prefixSnapshot, account.String()), func(data []byte) error {
		n, err := value.DecodeCBOR(data)
		if err != nil {
			return err
		}
		ret, takenAt, err = snapshotFromNode(n)
		return err
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return ret, takenAt, nil
}

// PutValidatorSamples stores per-era samples of a validator in a single batch
func (s *Store) PutValidatorSamples(validator staking.AccountID, samples []yield.ValidatorEraSample) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, sample := range samples {
		data, err := encodeSample(sample)
		if err != nil {
			return fmt.Errorf("encode era %d sample: %w", sample.Era, err)
		}
		if err := batch.Set(s.historyKey(validator, sample.Era), data, nil); err != nil {
			return err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return err
	}
	s.logger.Debug(
		"stored validator samples",
		"component", "store",
		"validator", validator.String(),
		"count", len(samples),
	)
	return nil
}

// ValidatorSamples returns all stored samples of a validator in era order
func (s *Store) ValidatorSamples(validator staking.AccountID) ([]yield.ValidatorEraSample, error) {
	prefix := s.historyPrefix(validator)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var ret []yield.ValidatorEraSample
	for iter.First(); iter.Valid(); iter.Next() {
		sample, err := decodeSample(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("decode sample %x: %w", iter.Key(), err)
		}
		ret = append(ret, sample)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return ret, nil
}

// MissingEras returns the eras, in the provided order, that have no stored sample
func (s *Store) MissingEras(validator staking.AccountID, eras []uint32) ([]uint32, error) {
	var ret []uint32
	for _, era := range eras {
		err := s.get(s.historyKey(validator, era), func([]byte) error { return nil })
		switch {
		case errors.Is(err, ErrNotFound):
			ret = append(ret, era)
		case err != nil:
			return nil, err
		}
	}
	return ret, nil
}
