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
	"fmt"

	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/holiman/uint256"
)

// Call is a runtime call by pallet and function name. Args hold the call
// arguments in declaration order using the argument types below
type Call struct {
	Pallet      string
	Function    string
	Args        []any
	Description string
}

// Name returns the call in Pallet.function form
func (c Call) Name() string {
	return c.Pallet + "." + c.Function
}

// Argument types
type (
	// Address is a MultiAddress::Id account reference
	Address staking.AccountID
	// Addresses is a sequence of MultiAddress::Id account references
	Addresses []staking.AccountID
	// CompactBalance is a compact-encoded 128-bit balance
	CompactBalance uint256.Int
	// BondExtraFreeBalance is the FreeBalance variant of a pool bond_extra argument
	BondExtraFreeBalance uint256.Int
)

type RewardDestinationKind uint8

const (
	RewardStaked     RewardDestinationKind = 0
	RewardStash      RewardDestinationKind = 1
	RewardController RewardDestinationKind = 2
	RewardAccount    RewardDestinationKind = 3
	RewardNone       RewardDestinationKind = 4
)

// RewardDestination is where staking rewards are paid
type RewardDestination struct {
	Kind RewardDestinationKind
	// Account is only used with RewardAccount
	Account staking.AccountID
}

func (d RewardDestination) String() string {
	switch d.Kind {
	case RewardStaked:
		return "Staked"
	case RewardStash:
		return "Stash"
	case RewardController:
		return "Controller"
	case RewardAccount:
		return "Account"
	case RewardNone:
		return "None"
	default:
		return fmt.Sprintf("RewardDestination(%d)", d.Kind)
	}
}

// ParseRewardDestination accepts "staked", "stash", "controller", "none" or an account
func ParseRewardDestination(s string) (RewardDestination, error) {
	switch s {
	case "staked", "Staked", "":
		return RewardDestination{Kind: RewardStaked}, nil
	case "stash", "Stash":
		return RewardDestination{Kind: RewardStash}, nil
	case "controller", "Controller":
		return RewardDestination{Kind: RewardController}, nil
	case "none", "None":
		return RewardDestination{Kind: RewardNone}, nil
	}
	account, err := staking.ParseAccountID(s)
	if err != nil {
		return RewardDestination{}, fmt.Errorf("invalid reward destination: %w", err)
	}
	return RewardDestination{Kind: RewardAccount, Account: account}, nil
}

// Nominate selects up to staking.MaxNominations validators
func Nominate(targets []staking.AccountID) (Call, error) {
	if len(targets) == 0 {
		return Call{}, fmt.Errorf("nominate requires at least one target")
	}
	if len(targets) > staking.MaxNominations {
		return Call{}, fmt.Errorf(
			"nominate accepts at most %d targets, got %d",
			staking.MaxNominations,
			len(targets),
		)
	}
	return Call{
		Pallet:      "Staking",
		Function:    "nominate",
		Args:        []any{Addresses(targets)},
		Description: fmt.Sprintf("Nominate %d validators", len(targets)),
	}, nil
}

func Bond(value uint256.Int, payee RewardDestination) Call {
	return Call{
		Pallet:      "Staking",
		Function:    "bond",
		Args:        []any{CompactBalance(value), payee},
		Description: fmt.Sprintf("Bond %s", value.Dec()),
	}
}

func BondExtra(value uint256.Int) Call {
	return Call{
		Pallet:      "Staking",
		Function:    "bond_extra",
		Args:        []any{CompactBalance(value)},
		Description: fmt.Sprintf("Bond extra %s", value.Dec()),
	}
}

func Unbond(value uint256.Int) Call {
	return Call{
		Pallet:      "Staking",
		Function:    "unbond",
		Args:        []any{CompactBalance(value)},
		Description: fmt.Sprintf("Unbond %s", value.Dec()),
	}
}

func SetPayee(payee RewardDestination) Call {
	return Call{
		Pallet:      "Staking",
		Function:    "set_payee",
		Args:        []any{payee},
		Description: fmt.Sprintf("Set reward destination to %s", payee),
	}
}

func Chill() Call {
	return Call{
		Pallet:      "Staking",
		Function:    "chill",
		Description: "Chill (stop nominating)",
	}
}

func WithdrawUnbonded(numSlashingSpans uint32) Call {
	return Call{
		Pallet:      "Staking",
		Function:    "withdraw_unbonded",
		Args:        []any{numSlashingSpans},
		Description: "Withdraw unbonded funds",
	}
}

func PoolJoin(amount uint256.Int, poolID uint32) Call {
	return Call{
		Pallet:      "NominationPools",
		Function:    "join",
		Args:        []any{CompactBalance(amount), poolID},
		Description: fmt.Sprintf("Join pool #%d with %s", poolID, amount.Dec()),
	}
}

func PoolBondExtra(amount uint256.Int) Call {
	return Call{
		Pallet:      "NominationPools",
		Function:    "bond_extra",
		Args:        []any{BondExtraFreeBalance(amount)},
		Description: fmt.Sprintf("Bond extra %s to pool", amount.Dec()),
	}
}

func PoolUnbond(member staking.AccountID, points uint256.Int) Call {
	return Call{
		Pallet:      "NominationPools",
		Function:    "unbond",
		Args:        []any{Address(member), CompactBalance(points)},
		Description: fmt.Sprintf("Unbond %s from pool", points.Dec()),
	}
}

func PoolClaimPayout() Call {
	return Call{
		Pallet:      "NominationPools",
		Function:    "claim_payout",
		Description: "Claim pool rewards",
	}
}

func PoolWithdrawUnbonded(member staking.AccountID, numSlashingSpans uint32) Call {
	return Call{
		Pallet:      "NominationPools",
		Function:    "withdraw_unbonded",
		Args:        []any{Address(member), numSlashingSpans},
		Description: "Withdraw unbonded pool funds",
	}
}
