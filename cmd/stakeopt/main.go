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
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/blinklabs-io/stakeopt/chain"
	"github.com/blinklabs-io/stakeopt/config"
	"github.com/blinklabs-io/stakeopt/staking"
	"github.com/blinklabs-io/stakeopt/store"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configFile string
	network    string
	endpoint   []string
	dataDir    string
	logLevel   string
}

// app holds what every subcommand needs after the configuration is loaded
type app struct {
	cfg     *config.Config
	network config.Network
	logger  *slog.Logger
}

func newRootCommand() *cobra.Command {
	f := &globalFlags{}
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "stakeopt",
		Short:         "Inspect staking positions and prepare staking transactions for offline signing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("network") {
				cfg.Network = f.network
			}
			if flags.Changed("endpoint") {
				cfg.Endpoints = f.endpoint
			}
			if flags.Changed("data-dir") {
				cfg.DataDir = f.dataDir
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = f.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			a.cfg = cfg
			a.network = cfg.NetworkInfo()
			a.logger = logger
			return nil
		},
	}
	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&f.configFile, "config", "", "path to a YAML config file")
	pflags.StringVar(&f.network, "network", "polkadot", "network name (polkadot, kusama, westend, paseo)")
	pflags.StringSliceVar(&f.endpoint, "endpoint", nil, "RPC endpoint to use instead of the network defaults (repeatable)")
	pflags.StringVar(&f.dataDir, "data-dir", "", "directory of the local cache database")
	pflags.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newAddressCommand(a),
		newAccountCommand(a),
		newEraCommand(a),
		newYieldCommand(a),
		newValidatorsCommand(a),
		newPoolsCommand(a),
		newPoolCommand(a),
		newQueryCommand(a),
	)
	rootCmd.AddCommand(newTxCommands(a)...)
	return rootCmd
}

// connect dials the configured endpoints and refuses a node of another network
func (a *app) connect(ctx context.Context, opts ...chain.ClientOptionFunc) (*chain.Client, error) {
	client, err := chain.Dial(
		ctx,
		a.cfg.ResolvedEndpoints(),
		append([]chain.ClientOptionFunc{chain.WithLogger(a.logger)}, opts...)...,
	)
	if err != nil {
		return nil, err
	}
	if err := client.VerifyChain(ctx, a.network.Name); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (a *app) openStore() (*store.Store, error) {
	if err := os.MkdirAll(a.cfg.DataDir, 0o700); err != nil {
		return nil, err
	}
	return store.Open(
		a.cfg.DataDir,
		a.cfg.Network,
		store.WithLogger(a.logger),
	)
}

func (a *app) parseAccount(s string) (staking.AccountID, error) {
	ret, err := staking.ParseAccountID(s)
	if err != nil {
		return ret, fmt.Errorf("invalid account %q: %w", s, err)
	}
	return ret, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		category := staking.Category(err)
		if category != "unknown" {
			fmt.Fprintf(os.Stderr, "error (%s): %s\n", category, err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}
