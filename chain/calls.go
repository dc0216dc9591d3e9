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

	"github.com/blinklabs-io/stakeopt/tx"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/holiman/uint256"
)

// rewardDestinationArg encodes RewardDestination as its variant index,
// followed by the account for the Account variant
type rewardDestinationArg tx.RewardDestination

func (d rewardDestinationArg) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(byte(d.Kind)); err != nil {
		return err
	}
	if d.Kind != tx.RewardAccount {
		return nil
	}
	var account [32]byte = d.Account
	return encoder.Encode(account)
}

// bondExtraArg encodes BondExtra::FreeBalance(compact balance)
type bondExtraArg struct {
	amount types.UCompact
}

func (b bondExtraArg) Encode(encoder scale.Encoder) error {
	if err := encoder.PushByte(0); err != nil {
		return err
	}
	return encoder.Encode(b.amount)
}

func compactBalance(v uint256.Int) types.UCompact {
	return types.NewUCompact(v.ToBig())
}

func multiAddress(account [32]byte) (types.MultiAddress, error) {
	return types.NewMultiAddressFromAccountID(account[:])
}

func convertArg(arg any) (any, error) {
	switch v := arg.(type) {
	case tx.Address:
		return multiAddress(v)
	case tx.Addresses:
		ret := make([]types.MultiAddress, 0, len(v))
		for _, account := range v {
			addr, err := multiAddress(account)
			if err != nil {
				return nil, err
			}
			ret = append(ret, addr)
		}
		return ret, nil
	case tx.CompactBalance:
		return compactBalance(uint256.Int(v)), nil
	case tx.BondExtraFreeBalance:
		return bondExtraArg{amount: compactBalance(uint256.Int(v))}, nil
	case tx.RewardDestination:
		return rewardDestinationArg(v), nil
	case uint32:
		return types.NewU32(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedArg, arg)
	}
}
