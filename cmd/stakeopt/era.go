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
	"time"

	"github.com/blinklabs-io/stakeopt/era"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/spf13/cobra"
)

func newEraCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "era",
		Short: "Show progress through the active era",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			active, err := client.ActiveEra(cmd.Context())
			if err != nil {
				return err
			}
			if active == nil {
				return staking.InvalidDataError{Reason: "no active era"}
			}
			resolver := era.NewResolver(client, a.logger)
			duration, source := resolver.Duration()
			now := time.Now()
			info, err := era.NewInfo(*active, duration, now)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "era:       %d\n", info.Index)
			fmt.Fprintf(out, "started:   %s\n", time.UnixMilli(int64(info.StartMs)).UTC().Format(time.RFC3339)) // #nosec G115
			fmt.Fprintf(out, "duration:  %s (%s)\n", time.Duration(info.DurationMs)*time.Millisecond, source)
			fmt.Fprintf(out, "progress:  %.1f%%\n", info.PctComplete*100)
			fmt.Fprintf(out, "remaining: %s\n", info.Remaining(now).Round(time.Second))
			if bonding, err := resolver.BondingDuration(); err == nil {
				fmt.Fprintf(out, "unbonding: %d eras\n", bonding)
			}
			if depth, err := resolver.HistoryDepth(); err == nil {
				fmt.Fprintf(out, "history:   %d eras\n", depth)
			}
			return nil
		},
	}
}
