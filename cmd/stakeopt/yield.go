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
	"slices"

	"github.com/blinklabs-io/stakeopt/chain"
	"github.com/blinklabs-io/stakeopt/config"
	"github.com/blinklabs-io/stakeopt/era"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/store"
	"github.com/blinklabs-io/stakeopt/yield"
	"github.com/spf13/cobra"
)

func newYieldCommand(a *app) *cobra.Command {
	var eras uint32
	var movingAverage string
	var limit int
	cmd := &cobra.Command{
		Use:   "yield [validator]...",
		Short: "Estimate annualized nominator yield of validators from recent eras",
		Long: "Estimate annualized nominator yield of validators from recent eras. " +
			"Without arguments the validators of the current session are used, up to --limit of them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if eras == 0 {
				eras = a.cfg.Yield.HistoryEras
			}
			if movingAverage == "" {
				movingAverage = a.cfg.Yield.MovingAverage
			}
			kind, err := yield.ParseMovingAverageType(movingAverage)
			if err != nil {
				return err
			}
			validators := make([]staking.AccountID, 0, len(args))
			for _, arg := range args {
				v, err := a.parseAccount(arg)
				if err != nil {
					return err
				}
				validators = append(validators, v)
			}
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()
			if len(validators) == 0 {
				session, err := client.SessionValidators(cmd.Context())
				if err != nil {
					return err
				}
				validators = session[:min(len(session), max(limit, 0))]
			}
			active, err := client.ActiveEra(cmd.Context())
			if err != nil {
				return err
			}
			if active == nil {
				return staking.InvalidDataError{Reason: "no active era"}
			}
			resolver := era.NewResolver(client, a.logger)
			duration, _ := resolver.Duration()
			// older eras have no reward data left on chain
			if depth, err := resolver.HistoryDepth(); err == nil && depth > 0 && eras > depth {
				a.logger.Info(
					"limiting yield window to the runtime history depth",
					"component", "cli",
					"eras", eras,
					"history_depth", depth,
				)
				eras = depth
			}
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			window := completedEras(active.Index, eras)
			for _, v := range validators {
				samples, err := loadSamples(cmd, client, db, v, window)
				if err != nil {
					return err
				}
				summary := yield.AggregateValidator(v, samples, duration, kind)
				printSummary(cmd.OutOrStdout(), a.network, summary, samples, duration)
			}
			return nil
		},
	}
	cmd.Flags().Uint32Var(&eras, "eras", 0, "number of completed eras to look back (defaults to yield.history_eras)")
	cmd.Flags().StringVar(&movingAverage, "moving-average", "", "smoothing of per-era yields (simple or exponential)")
	cmd.Flags().IntVar(&limit, "limit", 16, "number of session validators to report when none are given")
	return cmd
}

// completedEras returns up to count eras immediately before the active era
func completedEras(activeEra uint32, count uint32) []uint32 {
	first := activeEra - min(count, activeEra)
	ret := make([]uint32, 0, activeEra-first)
	for e := first; e < activeEra; e++ {
		ret = append(ret, e)
	}
	return ret
}

// loadSamples reads cached samples and fetches only the eras not cached yet
func loadSamples(
	cmd *cobra.Command,
	client *chain.Client,
	db *store.Store,
	validator staking.AccountID,
	window []uint32,
) ([]yield.ValidatorEraSample, error) {
	missing, err := db.MissingEras(validator, window)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		fetched, err := client.ValidatorHistory(cmd.Context(), validator, missing)
		if err != nil {
			return nil, err
		}
		if err := db.PutValidatorSamples(validator, fetched); err != nil {
			return nil, err
		}
	}
	all, err := db.ValidatorSamples(validator)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(s yield.ValidatorEraSample) bool {
		return !slices.Contains(window, s.Era)
	}), nil
}

func printSummary(
	w io.Writer,
	network config.Network,
	summary yield.ValidatorSummary,
	samples []yield.ValidatorEraSample,
	eraDurationMs uint64,
) {
	history := make([]yield.HistoryPoint, 0, len(samples))
	for _, s := range samples {
		if s.Active {
			history = append(history, yield.NewHistoryPoint(s.Era, s.Reward, s.TotalStake, eraDurationMs))
		}
	}
	stats := yield.ComputeHistoryStats(history)
	fmt.Fprintf(w, "validator:       %s\n", summary.Validator.SS58(network.SS58Prefix))
	fmt.Fprintf(w, "commission:      %.2f%%\n", summary.Commission*100)
	fmt.Fprintf(w, "blocked:         %t\n", summary.Blocked)
	fmt.Fprintf(w, "total stake:     %s\n", network.FormatBalance(summary.TotalStake))
	fmt.Fprintf(w, "nominators:      %d\n", summary.NominatorCount)
	fmt.Fprintf(w, "active eras:     %d of %d\n", len(history), summary.Eras)
	fmt.Fprintf(w, "nominator yield: %.2f%%\n", summary.NominatorYield*100)
	fmt.Fprintf(w, "total yield:     %.2f%%\n", summary.TotalYield*100)
	if stats.EraCount > 0 {
		fmt.Fprintf(w, "yield range:     %.2f%% to %.2f%%\n", stats.MinYield*100, stats.MaxYield*100)
		fmt.Fprintf(w, "rewards:         %s\n", network.FormatBalance(stats.TotalRewards))
	}
	fmt.Fprintln(w)
}
