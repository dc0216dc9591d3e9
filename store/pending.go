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


package store

import (
	"fmt"

	"github.com/blinklabs-io/stakeopt/cbor"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/tx"
	"github.com/cockroachdb/pebble"
)

type pendingRecord struct {
	cbor.StructAsArray
	CallData             []byte
	Description          string
	GenesisHash          []byte
	BlockHash            []byte
	SpecVersion          uint32
	TxVersion            uint32
	Nonce                uint64
	Mortal               bool
	Period               uint64
	Phase                uint64
	CheckMetadataHash    bool
	ChargeAssetTxPayment bool
}

// PutPending stores the unsigned payload a signer is expected to sign next,
// replacing any earlier one
func (s *Store) PutPending(signer staking.AccountID, p *tx.UnsignedPayload) error {
	record := pendingRecord{
		CallData:             p.CallData,
		Description:          p.Description,
		GenesisHash:          p.GenesisHash.Bytes(),
		BlockHash:            p.BlockHash.Bytes(),
		SpecVersion:          p.SpecVersion,
		TxVersion:            p.TxVersion,
		Nonce:                p.Nonce,
		Mortal:               p.Era.IsMortal(),
		Period:               p.Era.Period(),
		Phase:                p.Era.Phase(),
		CheckMetadataHash:    p.Extensions.CheckMetadataHash,
		ChargeAssetTxPayment: p.Extensions.ChargeAssetTxPayment,
	}
	data, err := cbor.Encode(&record)
	if err != nil {
		return fmt.Errorf("encode pending payload: %w", err)
	}
	return s.db.Set(s.key(prefixPending, signer.String()), data, pebble.Sync)
}

// Pending returns the stored unsigned payload of a signer
func (s *Store) Pending(signer staking.AccountID) (*tx.UnsignedPayload, error) {
	var record pendingRecord
	err := s.get(s.key(prefixPending, signer.String()), func(data []byte) error {
		_, err := cbor.Decode(data, &record)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(record.GenesisHash) != tx.HashSize || len(record.BlockHash) != tx.HashSize {
		return nil, fmt.Errorf("pending payload of %s has malformed hashes", signer)
	}
	ret := &tx.UnsignedPayload{
		CallData:    record.CallData,
		Description: record.Description,
		SpecVersion: record.SpecVersion,
		TxVersion:   record.TxVersion,
		Nonce:       record.Nonce,
		Era:         tx.Immortal(),
		Extensions: tx.Extensions{
			CheckMetadataHash:    record.CheckMetadataHash,
			ChargeAssetTxPayment: record.ChargeAssetTxPayment,
		},
	}
	copy(ret.GenesisHash[:], record.GenesisHash)
	copy(ret.BlockHash[:], record.BlockHash)
	if record.Mortal {
		ret.Era = tx.Mortal(record.Period, record.Phase)
	}
	return ret, nil
}

// DeletePending removes the stored payload of a signer
func (s *Store) DeletePending(signer staking.AccountID) error {
	return s.db.Delete(s.key(prefixPending, signer.String()), pebble.Sync)
}
