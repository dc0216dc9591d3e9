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


package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/blinklabs-io/stakeopt/config"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/tx"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

// txCommandDef describes a transaction subcommand. The first positional
// argument is always the signer; call receives the signer and the rest
type txCommandDef struct {
	use   string
	short string
	args  cobra.PositionalArgs
	call  func(signer staking.AccountID, args []string) (tx.Call, error)
}

func newTxCommands(a *app) []*cobra.Command {
	var (
		payee         string
		slashingSpans uint32
	)
	amountCall := func(fn func(uint256.Int) tx.Call) func(staking.AccountID, []string) (tx.Call, error) {
		return func(_ staking.AccountID, args []string) (tx.Call, error) {
			amount, err := a.network.ParseBalance(args[0])
			if err != nil {
				return tx.Call{}, err
			}
			return fn(amount), nil
		}
	}
	defs := []txCommandDef{
		{
			use:   "nominate <signer> <validator>...",
			short: "Nominate validators",
			args:  cobra.RangeArgs(2, staking.MaxNominations+1),
			call: func(_ staking.AccountID, args []string) (tx.Call, error) {
				targets := make([]staking.AccountID, 0, len(args))
				for _, arg := range args {
					target, err := a.parseAccount(arg)
					if err != nil {
						return tx.Call{}, err
					}
					targets = append(targets, target)
				}
				return tx.Nominate(targets)
			},
		},
		{
			use:   "bond <signer> <amount>",
			short: "Bond funds for staking",
			args:  cobra.ExactArgs(2),
			call: func(_ staking.AccountID, args []string) (tx.Call, error) {
				amount, err := a.network.ParseBalance(args[0])
				if err != nil {
					return tx.Call{}, err
				}
				dest, err := tx.ParseRewardDestination(payee)
				if err != nil {
					return tx.Call{}, err
				}
				return tx.Bond(amount, dest), nil
			},
		},
		{
			use:   "bond-extra <signer> <amount>",
			short: "Add free funds to an existing bond",
			args:  cobra.ExactArgs(2),
			call:  amountCall(tx.BondExtra),
		},
		{
			use:   "unbond <signer> <amount>",
			short: "Schedule bonded funds for withdrawal",
			args:  cobra.ExactArgs(2),
			call:  amountCall(tx.Unbond),
		},
		{
			use:   "withdraw-unbonded <signer>",
			short: "Withdraw funds whose unbonding period has passed",
			args:  cobra.ExactArgs(1),
			call: func(staking.AccountID, []string) (tx.Call, error) {
				return tx.WithdrawUnbonded(slashingSpans), nil
			},
		},
		{
			use:   "set-payee <signer> <staked|stash|none|account>",
			short: "Change where staking rewards are paid",
			args:  cobra.ExactArgs(2),
			call: func(_ staking.AccountID, args []string) (tx.Call, error) {
				dest, err := tx.ParseRewardDestination(args[0])
				if err != nil {
					return tx.Call{}, err
				}
				return tx.SetPayee(dest), nil
			},
		},
		{
			use:   "chill <signer>",
			short: "Stop nominating",
			args:  cobra.ExactArgs(1),
			call: func(staking.AccountID, []string) (tx.Call, error) {
				return tx.Chill(), nil
			},
		},
		{
			use:   "pool-join <signer> <pool-id> <amount>",
			short: "Join a nomination pool",
			args:  cobra.ExactArgs(3),
			call: func(_ staking.AccountID, args []string) (tx.Call, error) {
				poolID, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return tx.Call{}, fmt.Errorf("invalid pool id %q: %w", args[0], err)
				}
				amount, err := a.network.ParseBalance(args[1])
				if err != nil {
					return tx.Call{}, err
				}
				return tx.PoolJoin(amount, uint32(poolID)), nil
			},
		},
		{
			use:   "pool-bond-extra <signer> <amount>",
			short: "Add free funds to a pool membership",
			args:  cobra.ExactArgs(2),
			call:  amountCall(tx.PoolBondExtra),
		},
		{
			use:   "pool-unbond <signer> <points>",
			short: "Unbond points from a pool membership",
			args:  cobra.ExactArgs(2),
			call: func(signer staking.AccountID, args []string) (tx.Call, error) {
				points, err := a.network.ParseBalance(args[0])
				if err != nil {
					return tx.Call{}, err
				}
				return tx.PoolUnbond(signer, points), nil
			},
		},
		{
			use:   "pool-claim <signer>",
			short: "Claim pending pool rewards",
			args:  cobra.ExactArgs(1),
			call: func(staking.AccountID, []string) (tx.Call, error) {
				return tx.PoolClaimPayout(), nil
			},
		},
		{
			use:   "pool-withdraw <signer>",
			short: "Withdraw pool funds whose unbonding period has passed",
			args:  cobra.ExactArgs(1),
			call: func(signer staking.AccountID, _ []string) (tx.Call, error) {
				return tx.PoolWithdrawUnbonded(signer, slashingSpans), nil
			},
		},
	}
	ret := make([]*cobra.Command, 0, len(defs)+1)
	for _, def := range defs {
		cmd := newTxCommand(a, def)
		switch def.use[:strings.IndexByte(def.use, ' ')] {
		case "bond":
			cmd.Flags().StringVar(&payee, "payee", "staked", "reward destination (staked, stash, none or an account)")
		case "withdraw-unbonded", "pool-withdraw":
			cmd.Flags().Uint32Var(&slashingSpans, "slashing-spans", 0, "number of slashing spans of the stash")
		}
		ret = append(ret, cmd)
	}
	ret = append(ret, newExtrinsicCommand(a))
	return ret
}

func newTxCommand(a *app, def txCommandDef) *cobra.Command {
	return &cobra.Command{
		Use:   def.use,
		Short: def.short,
		Args:  def.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.parseAccount(args[0])
			if err != nil {
				return err
			}
			call, err := def.call(signer, args[1:])
			if err != nil {
				return err
			}
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			builder := tx.NewBuilder(client, client, builderOptions(a)...)
			payload, err := builder.Build(cmd.Context(), signer, call)
			if err != nil {
				return err
			}
			printPayload(cmd.OutOrStdout(), a.network, signer, payload)
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			return db.PutPending(signer, payload)
		},
	}
}

func builderOptions(a *app) []tx.BuilderOptionFunc {
	ret := []tx.BuilderOptionFunc{tx.WithLogger(a.logger)}
	switch {
	case a.cfg.Tx.Immortal:
		ret = append(ret, tx.WithImmortal())
	case a.cfg.Tx.MortalPeriod > 0:
		ret = append(ret, tx.WithMortalPeriod(a.cfg.Tx.MortalPeriod))
	}
	return ret
}

func printPayload(w io.Writer, network config.Network, signer staking.AccountID, p *tx.UnsignedPayload) {
	fmt.Fprintf(w, "description:     %s\n", p.Description)
	fmt.Fprintf(w, "signer:          %s\n", signer.SS58(network.SS58Prefix))
	fmt.Fprintf(w, "nonce:           %d\n", p.Nonce)
	fmt.Fprintf(w, "era:             %s\n", p.Era)
	fmt.Fprintf(w, "spec version:    %d\n", p.SpecVersion)
	fmt.Fprintf(w, "tx version:      %d\n", p.TxVersion)
	fmt.Fprintf(w, "call data:       0x%s\n", hex.EncodeToString(p.CallData))
	fmt.Fprintf(w, "signing payload: 0x%s\n", hex.EncodeToString(p.SigningPayload()))
	fmt.Fprintf(w, "qr payload:      %s\n", hex.EncodeToString(tx.EncodeForQR(p, signer)))
}

func newExtrinsicCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extrinsic <signer> <signature>",
		Short: "Combine the pending payload of a signer with its signature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := a.parseAccount(args[0])
			if err != nil {
				return err
			}
			signature, err := tx.DecodeSignature([]byte(strings.TrimPrefix(args[1], "0x")))
			if err != nil {
				return err
			}
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			payload, err := db.Pending(signer)
			if err != nil {
				return fmt.Errorf("pending payload of %s: %w", args[0], err)
			}
			ext := tx.BuildSignedExtrinsic(payload, signer, signature)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "description: %s\n", ext.Description)
			fmt.Fprintf(w, "extrinsic:   0x%s\n", hex.EncodeToString(ext.Encoded))
			fmt.Fprintf(w, "hash:        %s\n", ext.Hash)
			return db.DeletePending(signer)
		},
	}
}
