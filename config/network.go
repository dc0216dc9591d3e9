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


package config

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/holiman/uint256"
)

var ErrUnknownNetwork = errors.New("unknown network")

// Network is a known relay chain and its staking parachain
type Network struct {
	Name       string
	Token      string
	Decimals   uint8
	SS58Prefix uint16
	// AssetHubEndpoints serve staking state
	AssetHubEndpoints []string
	// RelayEndpoints serve block and session data
	RelayEndpoints []string
	Testnet        bool
}

var Networks = map[string]Network{
	"polkadot": {
		Name:       "Polkadot",
		Token:      "DOT",
		Decimals:   10,
		SS58Prefix: 0,
		AssetHubEndpoints: []string{
			"wss://polkadot-asset-hub-rpc.polkadot.io",
			"wss://rpc-asset-hub-polkadot.luckyfriday.io",
			"wss://sys.ibp.network/asset-hub-polkadot",
			"wss://asset-hub-polkadot-rpc.dwellir.com",
		},
		RelayEndpoints: []string{
			"wss://rpc.ibp.network/polkadot",
			"wss://polkadot.dotters.network",
			"wss://polkadot-rpc.dwellir.com",
		},
	},
	"kusama": {
		Name:       "Kusama",
		Token:      "KSM",
		Decimals:   12,
		SS58Prefix: 2,
		AssetHubEndpoints: []string{
			"wss://kusama-asset-hub-rpc.polkadot.io",
			"wss://rpc-asset-hub-kusama.luckyfriday.io",
			"wss://sys.ibp.network/asset-hub-kusama",
			"wss://asset-hub-kusama-rpc.dwellir.com",
		},
		RelayEndpoints: []string{
			"wss://rpc.ibp.network/kusama",
			"wss://kusama.dotters.network",
			"wss://kusama-rpc.dwellir.com",
		},
	},
	"westend": {
		Name:       "Westend",
		Token:      "WND",
		Decimals:   12,
		SS58Prefix: 42,
		AssetHubEndpoints: []string{
			"wss://westend-asset-hub-rpc.polkadot.io",
			"wss://sys.ibp.network/asset-hub-westend",
			"wss://asset-hub-westend-rpc.dwellir.com",
		},
		RelayEndpoints: []string{
			"wss://westend-rpc.polkadot.io",
			"wss://westend-rpc.dwellir.com",
		},
		Testnet: true,
	},
	"paseo": {
		Name:       "Paseo",
		Token:      "PAS",
		Decimals:   10,
		SS58Prefix: 0,
		AssetHubEndpoints: []string{
			"wss://sys.ibp.network/asset-hub-paseo",
			"wss://sys.dotters.network/asset-hub-paseo",
			"wss://asset-hub-paseo-rpc.dwellir.com",
		},
		RelayEndpoints: []string{
			"wss://rpc.ibp.network/paseo",
			"wss://paseo-rpc.dwellir.com",
		},
		Testnet: true,
	},
}

// LookupNetwork returns a known network by case-insensitive name
func LookupNetwork(name string) (Network, error) {
	ret, ok := Networks[strings.ToLower(name)]
	if !ok {
		return Network{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return ret, nil
}

func (n Network) unit() *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n.Decimals)))
}

// FormatBalance renders a planck amount as whole tokens with four fractional
// digits, such as "1,234.5000 DOT". Extra digits are truncated
func (n Network) FormatBalance(v uint256.Int) string {
	var whole, frac uint256.Int
	whole.DivMod(&v, n.unit(), &frac)
	fracDigits := 4
	if int(n.Decimals) < fracDigits {
		fracDigits = int(n.Decimals)
	}
	frac.Div(&frac, new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(int(n.Decimals)-fracDigits))))
	ret := humanize.BigComma(whole.ToBig())
	if fracDigits > 0 {
		ret += fmt.Sprintf(".%0*d", fracDigits, frac.Uint64())
	}
	return ret + " " + n.Token
}

// ParseBalance parses a token amount such as "12.5" into planck
func (n Network) ParseBalance(s string) (uint256.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	wholeText, fracText, _ := strings.Cut(s, ".")
	if wholeText == "" && fracText == "" {
		return uint256.Int{}, errors.New("empty amount")
	}
	if len(fracText) > int(n.Decimals) {
		return uint256.Int{}, fmt.Errorf("amount has more than %d fractional digits", n.Decimals)
	}
	digits := wholeText + fracText + strings.Repeat("0", int(n.Decimals)-len(fracText))
	tmp, ok := new(big.Int).SetString(digits, 10)
	if !ok || tmp.Sign() < 0 || strings.ContainsAny(digits, "+-") {
		return uint256.Int{}, fmt.Errorf("invalid amount %q", s)
	}
	var ret uint256.Int
	if overflow := ret.SetFromBig(tmp); overflow {
		return uint256.Int{}, fmt.Errorf("amount %q is too large", s)
	}
	return ret, nil
}
