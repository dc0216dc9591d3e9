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
	"math"
	"time"

	"github.com/blinklabs-io/stakeopt/cbor"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/blinklabs-io/stakeopt/yield"
	"github.com/holiman/uint256"
)

// Snapshots are stored as value trees whose subtrees have the same layout as
// the storage items they came from, so the staking decoders read them back

func uintNode(v uint256.Int) value.Node {
	return value.NewUint256(&v)
}

func snapshotNode(snap *staking.AccountSnapshot, takenAt time.Time) value.Node {
	fields := []value.Field{
		value.F("account", value.Bytes(snap.Account.Bytes())),
		value.F("taken_at", value.NewUint(uint64(max(takenAt.UnixMilli(), 0)))),
		value.F("active_era", value.NewUint(uint64(snap.ActiveEra))),
		value.F("record", value.Named(
			value.F("nonce", value.NewUint(snap.Nonce)),
			value.F("data", value.Named(
				value.F("free", uintNode(snap.Balance.Free)),
				value.F("reserved", uintNode(snap.Balance.Reserved)),
				value.F("frozen", uintNode(snap.Balance.Frozen)),
			)),
		)),
	}
	if l := snap.Ledger; l != nil {
		unlocking := make(value.Sequence, 0, len(l.Unlocking))
		for _, chunk := range l.Unlocking {
			unlocking = append(unlocking, value.Named(
				value.F("value", uintNode(chunk.Value)),
				value.F("era", value.NewUint(uint64(chunk.Era))),
			))
		}
		fields = append(fields, value.F("ledger", value.Named(
			value.F("stash", value.Bytes(l.Stash.Bytes())),
			value.F("total", uintNode(l.Total)),
			value.F("active", uintNode(l.Active)),
			value.F("unlocking", unlocking),
		)))
	}
	if n := snap.Nominations; n != nil {
		targets := make(value.Sequence, 0, len(n.Targets))
		for _, target := range n.Targets {
			targets = append(targets, value.Bytes(target.Bytes()))
		}
		fields = append(fields, value.F("nominations", value.Named(
			value.F("targets", targets),
			value.F("submitted_in", value.NewUint(uint64(n.SubmittedIn))),
			value.F("suppressed", value.Bool(n.Suppressed)),
		)))
	}
	if p := snap.Pool; p != nil {
		unbonding := make(value.Sequence, 0, len(p.UnbondingEras))
		for _, entry := range p.UnbondingEras {
			unbonding = append(unbonding, value.Tuple(
				value.NewUint(uint64(entry.Era)),
				uintNode(entry.Amount),
			))
		}
		fields = append(fields, value.F("pool", value.Named(
			value.F("pool_id", value.NewUint(uint64(p.PoolID))),
			value.F("points", uintNode(p.Points)),
			value.F("unbonding_eras", unbonding),
		)))
	}
	return value.Named(fields...)
}

func snapshotFromNode(n value.Node) (*staking.AccountSnapshot, time.Time, error) {
	accountNode, _ := value.At(n, "account")
	account, ok := staking.DecodeAccountID(accountNode)
	if !ok {
		return nil, time.Time{}, staking.DecodeError{Field: "account", Reason: "not a 32 byte account"}
	}
	ret := &staking.AccountSnapshot{Account: account}
	var takenAt time.Time
	if child, ok := value.At(n, "taken_at"); ok {
		ms, _ := value.AsUint64(child)
		takenAt = time.UnixMilli(int64(min(ms, math.MaxInt64)))
	}
	if child, ok := value.At(n, "active_era"); ok {
		ret.ActiveEra, _ = value.AsUint32(child)
	}
	record, _ := value.At(n, "record")
	nonce, err := staking.DecodeNonce(record)
	if err != nil {
		return nil, time.Time{}, err
	}
	ret.Nonce = nonce
	ret.Balance = staking.DecodeAccountBalance(record)
	if child, ok := value.At(n, "ledger"); ok {
		ret.Ledger = staking.DecodeStakingLedger(child, account)
	}
	if child, ok := value.At(n, "nominations"); ok {
		ret.Nominations = staking.DecodeNominations(child)
	}
	if child, ok := value.At(n, "pool"); ok {
		ret.Pool = staking.DecodePoolMembership(child)
	}
	return ret, takenAt, nil
}

type sampleRecord struct {
	cbor.StructAsArray
	Era               uint32
	Active            bool
	TotalStake        []byte
	NominatorCount    uint32
	Reward            []byte
	CommissionPerbill uint32
	Blocked           bool
	Points            uint32
}

func encodeSample(sample yield.ValidatorEraSample) ([]byte, error) {
	commission := min(max(sample.Commission, 0), 1)
	record := sampleRecord{
		Era:               sample.Era,
		Active:            sample.Active,
		TotalStake:        sample.TotalStake.Bytes(),
		NominatorCount:    sample.NominatorCount,
		Reward:            sample.Reward.Bytes(),
		CommissionPerbill: uint32(math.Round(commission * staking.PerbillDenominator)),
		Blocked:           sample.Blocked,
		Points:            sample.Points,
	}
	return cbor.Encode(&record)
}

func decodeSample(data []byte) (yield.ValidatorEraSample, error) {
	var record sampleRecord
	if _, err := cbor.Decode(data, &record); err != nil {
		return yield.ValidatorEraSample{}, err
	}
	ret := yield.ValidatorEraSample{
		Era:            record.Era,
		Active:         record.Active,
		NominatorCount: record.NominatorCount,
		Commission:     float64(record.CommissionPerbill) / staking.PerbillDenominator,
		Blocked:        record.Blocked,
		Points:         record.Points,
	}
	ret.TotalStake.SetBytes(record.TotalStake)
	ret.Reward.SetBytes(record.Reward)
	return ret, nil
}
