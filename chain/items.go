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
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

// Item is a storage item with a known layout
type Item struct {
	Pallet string
	Name   string
	decode func(raw []byte) (value.Node, error)
}

func (i Item) String() string {
	return i.Pallet + "." + i.Name
}

func newItem[S any, P interface {
	*S
	node() value.Node
}](pallet string, name string) Item {
	return Item{
		Pallet: pallet,
		Name:   name,
		decode: func(raw []byte) (value.Node, error) {
			var shape S
			if err := codec.Decode(raw, &shape); err != nil {
				return nil, err
			}
			return P(&shape).node(), nil
		},
	}
}

// Known storage items
var (
	ItemSystemAccount             = newItem[accountInfoShape]("System", "Account")
	ItemStakingLedger             = newItem[ledgerShape]("Staking", "Ledger")
	ItemStakingNominators         = newItem[nominationsShape]("Staking", "Nominators")
	ItemStakingActiveEra          = newItem[activeEraShape]("Staking", "ActiveEra")
	ItemStakingValidators         = newItem[validatorPrefsShape]("Staking", "Validators")
	ItemStakingErasValidatorPrefs = newItem[validatorPrefsShape]("Staking", "ErasValidatorPrefs")
	ItemStakingErasStakers        = newItem[exposureOverviewShape]("Staking", "ErasStakersOverview")
	ItemStakingErasRewardPoints   = newItem[eraRewardPointsShape]("Staking", "ErasRewardPoints")
	ItemStakingErasReward         = newItem[balanceShape]("Staking", "ErasValidatorReward")
	ItemPoolMembers               = newItem[poolMemberShape]("NominationPools", "PoolMembers")
	ItemBondedPools               = newItem[bondedPoolShape]("NominationPools", "BondedPools")
	ItemPoolMetadata              = newItem[poolMetadataShape]("NominationPools", "Metadata")
	ItemSessionValidators         = newItem[sessionValidatorsShape]("Session", "Validators")
)

// Items lists the known storage items by their Pallet.Name
var Items = map[string]Item{}

// LookupItem finds a known storage item by its Pallet.Name
func LookupItem(name string) (Item, bool) {
	ret, ok := Items[name]
	return ret, ok
}

func init() {
	for _, item := range []Item{
		ItemSystemAccount,
		ItemStakingLedger,
		ItemStakingNominators,
		ItemStakingActiveEra,
		ItemStakingValidators,
		ItemStakingErasValidatorPrefs,
		ItemStakingErasStakers,
		ItemStakingErasRewardPoints,
		ItemStakingErasReward,
		ItemPoolMembers,
		ItemBondedPools,
		ItemPoolMetadata,
		ItemSessionValidators,
	} {
		Items[item.String()] = item
	}
}
