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
	"slices"
	"strconv"
	"strings"

	"github.com/blinklabs-io/stakeopt/chain"
	"github.com/blinklabs-io/stakeopt/value"
	"github.com/spf13/cobra"
)

func newQueryCommand(a *app) *cobra.Command {
	var cached bool
	cmd := &cobra.Command{
		Use:   "query <Pallet.Item> [key]...",
		Short: "Read a known storage item and print it as a value tree",
		Long: "Read a known storage item and print it as a value tree. Keys are accounts or " +
			"decimal era/pool numbers. Trees read from the chain are kept in the local database " +
			"and --cached prints the stored copy without connecting.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, ok := chain.LookupItem(args[0])
			if !ok {
				return fmt.Errorf("unknown storage item %q (known: %s)", args[0], strings.Join(knownItems(), ", "))
			}
			keys := make([][]byte, 0, len(args)-1)
			for _, arg := range args[1:] {
				key, err := a.parseStorageKey(arg)
				if err != nil {
					return err
				}
				keys = append(keys, key)
			}
			name := chain.TreeName(item, keys...)
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			var n value.Node
			if cached {
				n, err = db.Tree(name)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			} else {
				client, err := a.connect(cmd.Context())
				if err != nil {
					return err
				}
				defer client.Close()
				n, err = client.Query(cmd.Context(), item, keys...)
				if err != nil {
					return err
				}
				if n != nil {
					if err := db.PutTree(name, n); err != nil {
						return err
					}
				}
			}
			out := cmd.OutOrStdout()
			if n == nil {
				fmt.Fprintln(out, "none")
				return nil
			}
			printTree(out, n, 0)
			return nil
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "print the copy stored by an earlier read")
	return cmd
}

func knownItems() []string {
	ret := make([]string, 0, len(chain.Items))
	for name := range chain.Items {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

// parseStorageKey accepts a decimal era or pool number, or an account
func (a *app) parseStorageKey(s string) ([]byte, error) {
	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		return chain.U32Key(uint32(v)), nil
	}
	account, err := a.parseAccount(s)
	if err != nil {
		return nil, fmt.Errorf("invalid storage key %q", s)
	}
	return chain.AccountKey(account), nil
}

func printTree(w io.Writer, n value.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case value.Uint:
		u := v.Value()
		fmt.Fprintf(w, "%s%s\n", indent, u.Dec())
	case value.Bool:
		fmt.Fprintf(w, "%s%t\n", indent, bool(v))
	case value.Text:
		fmt.Fprintf(w, "%s%q\n", indent, string(v))
	case value.Sequence:
		if data := value.AsBytes(v, len(v)); len(v) > 0 && len(data) == len(v) {
			fmt.Fprintf(w, "%s0x%s\n", indent, hex.EncodeToString(data))
			return
		}
		fmt.Fprintf(w, "%s[%d]\n", indent, len(v))
		for _, child := range v {
			printTree(w, child, depth+1)
		}
	case value.Composite:
		printFields(w, v, depth)
	case value.Variant:
		fmt.Fprintf(w, "%s%s\n", indent, v.Name)
		printFields(w, v.Fields, depth+1)
	}
}

func printFields(w io.Writer, fields value.Composite, depth int) {
	indent := strings.Repeat("  ", depth)
	for idx, field := range fields {
		name := field.Name
		if name == "" {
			name = strconv.Itoa(idx)
		}
		fmt.Fprintf(w, "%s%s:\n", indent, name)
		printTree(w, field.Value, depth+1)
	}
}
