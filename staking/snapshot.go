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
	"github.com/jinzhu/copier"
)

// AccountSnapshot is the full staking position of one account at a point in time
type AccountSnapshot struct {
	Account     AccountID
	Balance     AccountBalance
	Nonce       uint64
	Ledger      *StakingLedger
	Nominations *NominatorInfo
	Pool        *PoolMembership
	// ActiveEra is the era index the snapshot was taken in
	ActiveEra uint32
}

// IsNominating reports whether the account directly nominates any validators
func (s *AccountSnapshot) IsNominating() bool {
	return s.Nominations != nil && len(s.Nominations.Targets) > 0
}

// Clone returns a deep copy of the snapshot
func (s *AccountSnapshot) Clone() (*AccountSnapshot, error) {
	ret := &AccountSnapshot{}
	if err := copier.CopyWithOption(ret, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return ret, nil
}
