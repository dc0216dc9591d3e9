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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/blinklabs-io/stakeopt/config"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/spf13/cobra"
)

func newValidatorsCommand(a *app) *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "validators",
		Short: "List registered validators with their commission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			candidates, err := client.ValidatorCandidates(cmd.Context())
			if err != nil {
				return err
			}
			printCandidates(cmd.OutOrStdout(), a.network, candidates, activeOnly)
			return nil
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active-only", false, "only list validators of the current session")
	return cmd
}

func printCandidates(w io.Writer, network config.Network, candidates []staking.ValidatorCandidate, activeOnly bool) {
	for _, c := range candidates {
		if activeOnly && !c.Active {
			continue
		}
		var flags []string
		if c.Active {
			flags = append(flags, "active")
		}
		if c.Prefs.Blocked {
			flags = append(flags, "blocked")
		}
		fmt.Fprintf(
			w,
			"%s  %6.2f%%  %s\n",
			c.Account.SS58(network.SS58Prefix),
			c.Prefs.CommissionRate()*100,
			strings.Join(flags, ","),
		)
	}
}

func newPoolsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pools",
		Short: "List nomination pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			pools, err := client.Pools(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, pool := range pools {
				fmt.Fprintf(
					out,
					"#%-5d %-10s %6d members  %s points  %s\n",
					pool.ID,
					pool.State,
					pool.MemberCounter,
					pool.Points.Dec(),
					pool.Name,
				)
			}
			return nil
		},
	}
}

func parsePoolID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid pool id %q", s)
	}
	return uint32(id), nil
}

func newPoolCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pool <id>",
		Short: "Show a nomination pool with its accounts and nominations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			pool, err := client.BondedPool(cmd.Context(), poolID)
			if err != nil {
				return err
			}
			if pool == nil {
				return fmt.Errorf("pool %d does not exist", poolID)
			}
			nominations, err := client.PoolNominations(cmd.Context(), poolID)
			if err != nil {
				return err
			}
			printPool(cmd.OutOrStdout(), a.network, pool, nominations)
			return nil
		},
	}
}

func printPool(w io.Writer, network config.Network, pool *staking.BondedPool, nominations *staking.NominatorInfo) {
	prefix := network.SS58Prefix
	fmt.Fprintf(w, "pool:      #%d %s\n", pool.ID, pool.Name)
	fmt.Fprintf(w, "state:     %s\n", pool.State)
	fmt.Fprintf(w, "members:   %d\n", pool.MemberCounter)
	fmt.Fprintf(w, "points:    %s\n", pool.Points.Dec())
	fmt.Fprintf(w, "bonded:    %s\n", staking.DerivePoolAccount(pool.ID, staking.PoolAccountBonded).SS58(prefix))
	fmt.Fprintf(w, "reward:    %s\n", staking.DerivePoolAccount(pool.ID, staking.PoolAccountReward).SS58(prefix))
	fmt.Fprintf(w, "depositor: %s\n", pool.Roles.Depositor.SS58(prefix))
	for _, role := range []struct {
		name    string
		account *staking.AccountID
	}{
		{"root", pool.Roles.Root},
		{"nominator", pool.Roles.Nominator},
		{"bouncer", pool.Roles.Bouncer},
	} {
		if role.account != nil {
			fmt.Fprintf(w, "%-10s %s\n", role.name+":", role.account.SS58(prefix))
		}
	}
	if nominations == nil {
		fmt.Fprintln(w, "not nominating")
		return
	}
	fmt.Fprintf(w, "nominations: %d (submitted in era %d)\n", len(nominations.Targets), nominations.SubmittedIn)
	for _, target := range nominations.Targets {
		fmt.Fprintf(w, "  %s\n", target.SS58(prefix))
	}
}
