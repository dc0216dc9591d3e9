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
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/blinklabs-io/stakeopt/chain"
	"github.com/blinklabs-io/stakeopt/config"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/store"
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

func newAccountCommand(a *app) *cobra.Command {
	var noCache bool
	cmd := &cobra.Command{
		Use:   "account <address>",
		Short: "Show the balance and staking position of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := a.parseAccount(args[0])
			if err != nil {
				return err
			}
			var mu sync.Mutex
			trees := map[string]value.Node{}
			client, err := a.connect(
				cmd.Context(),
				chain.WithTreeRecorder(func(name string, n value.Node) {
					mu.Lock()
					defer mu.Unlock()
					trees[name] = n
				}),
			)
			if err != nil {
				return err
			}
			defer client.Close()
			snap, err := client.AccountOverview(cmd.Context(), account)
			if err != nil {
				return err
			}
			if noCache {
				printSnapshot(cmd.OutOrStdout(), a.network, snap)
				return nil
			}
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			prev, prevAt, err := db.Snapshot(account)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			// the stored copy must not share slices with the printed one
			stored, err := snap.Clone()
			if err != nil {
				return err
			}
			if err := db.PutSnapshot(stored, time.Now()); err != nil {
				return err
			}
			for name, n := range trees {
				if err := db.PutTree(name, n); err != nil {
					return err
				}
			}
			printSnapshot(cmd.OutOrStdout(), a.network, snap)
			if prev != nil {
				printChanges(cmd.OutOrStdout(), a.network, prev, prevAt, snap)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not store the snapshot in the local database")
	return cmd
}

func printSnapshot(w io.Writer, network config.Network, snap *staking.AccountSnapshot) {
	fmt.Fprintf(w, "account:      %s\n", snap.Account.SS58(network.SS58Prefix))
	fmt.Fprintf(w, "nonce:        %d\n", snap.Nonce)
	fmt.Fprintf(w, "free:         %s\n", network.FormatBalance(snap.Balance.Free))
	fmt.Fprintf(w, "reserved:     %s\n", network.FormatBalance(snap.Balance.Reserved))
	fmt.Fprintf(w, "frozen:       %s\n", network.FormatBalance(snap.Balance.Frozen))
	fmt.Fprintf(w, "transferable: %s\n", network.FormatBalance(snap.Balance.Transferable()))
	if l := snap.Ledger; l != nil {
		fmt.Fprintf(w, "bonded:       %s\n", network.FormatBalance(l.Total))
		fmt.Fprintf(w, "active:       %s\n", network.FormatBalance(l.Active))
		fmt.Fprintf(w, "unbonding:    %s\n", network.FormatBalance(l.Unbonding()))
		fmt.Fprintf(w, "withdrawable: %s\n", network.FormatBalance(l.Withdrawable(snap.ActiveEra)))
		for _, chunk := range l.Unlocking {
			fmt.Fprintf(w, "  unlock %s at era %d\n", network.FormatBalance(chunk.Value), chunk.Era)
		}
	}
	if n := snap.Nominations; n != nil {
		fmt.Fprintf(w, "nominations:  %d (submitted in era %d)\n", len(n.Targets), n.SubmittedIn)
		for _, target := range n.Targets {
			fmt.Fprintf(w, "  %s\n", target.SS58(network.SS58Prefix))
		}
	}
	if p := snap.Pool; p != nil {
		fmt.Fprintf(w, "pool:         #%d with %s points\n", p.PoolID, p.Points.Dec())
		for _, entry := range p.UnbondingEras {
			fmt.Fprintf(w, "  unbond %s at era %d\n", network.FormatBalance(entry.Amount), entry.Era)
		}
	}
}

// printChanges reports how the balance moved since the previous stored snapshot
func printChanges(
	w io.Writer,
	network config.Network,
	prev *staking.AccountSnapshot,
	prevAt time.Time,
	cur *staking.AccountSnapshot,
) {
	fmt.Fprintf(w, "since %s (era %d):\n", prevAt.UTC().Format(time.RFC3339), prev.ActiveEra)
	fmt.Fprintf(w, "  free:   %s\n", balanceChange(network, prev.Balance.Free, cur.Balance.Free))
	var prevBonded, curBonded uint256.Int
	if prev.Ledger != nil {
		prevBonded = prev.Ledger.Total
	}
	if cur.Ledger != nil {
		curBonded = cur.Ledger.Total
	}
	fmt.Fprintf(w, "  bonded: %s\n", balanceChange(network, prevBonded, curBonded))
}

func balanceChange(network config.Network, prev uint256.Int, cur uint256.Int) string {
	var diff uint256.Int
	if cur.Lt(&prev) {
		diff.Sub(&prev, &cur)
		return "-" + network.FormatBalance(diff)
	}
	diff.Sub(&cur, &prev)
	return "+" + network.FormatBalance(diff)
}
