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

	"github.com/blinklabs-io/stakeopt/ss58"
	"github.com/spf13/cobra"
)

func newAddressCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Convert between SS58 addresses and account IDs",
	}
	var prefix int
	encodeCmd := &cobra.Command{
		Use:   "encode <account-id-or-address>",
		Short: "Encode an account as an SS58 address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := a.parseAccount(args[0])
			if err != nil {
				return err
			}
			p := a.network.SS58Prefix
			if cmd.Flags().Changed("prefix") {
				if prefix < 0 || prefix > 0xffff {
					return fmt.Errorf("prefix %d out of range", prefix)
				}
				p = uint16(prefix)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ss58.Encode(account, p))
			return nil
		},
	}
	encodeCmd.Flags().IntVar(&prefix, "prefix", 0, "SS58 prefix (defaults to the network prefix)")
	decodeCmd := &cobra.Command{
		Use:   "decode <address>",
		Short: "Decode an SS58 address and verify its checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, p, err := ss58.Decode(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "account: 0x%x\n", account)
			fmt.Fprintf(out, "prefix:  %d\n", p)
			return nil
		},
	}
	cmd.AddCommand(encodeCmd, decodeCmd)
	return cmd
}
