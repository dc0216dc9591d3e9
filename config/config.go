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


// Package config loads process configuration from an optional YAML file
// and STAKEOPT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/blinklabs-io/stakeopt/yield"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

const EnvPrefix = "STAKEOPT_"

const (
	ChainAssetHub = "asset_hub"
	ChainRelay    = "relay"
)

type Config struct {
	Network string `koanf:"network"`
	// Chain selects which endpoint list of the network is used
	Chain string `koanf:"chain"`
	// Endpoints overrides the endpoints of the network
	Endpoints []string    `koanf:"endpoints"`
	DataDir   string      `koanf:"data_dir"`
	Log       LogConfig   `koanf:"log"`
	Tx        TxConfig    `koanf:"tx"`
	Yield     YieldConfig `koanf:"yield"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type TxConfig struct {
	// MortalPeriod is the validity window in blocks. Zero keeps the default
	MortalPeriod uint64 `koanf:"mortal_period"`
	Immortal     bool   `koanf:"immortal"`
}

type YieldConfig struct {
	MovingAverage string `koanf:"moving_average"`
	HistoryEras   uint32 `koanf:"history_eras"`
}

var defaults = map[string]any{
	"network":              "polkadot",
	"chain":                ChainAssetHub,
	"data_dir":             ".stakeopt",
	"log.level":            "info",
	"log.format":           "text",
	"tx.mortal_period":     0,
	"tx.immortal":          false,
	"yield.moving_average": string(yield.MovingAverageSimple),
	"yield.history_eras":   28,
}

// Load reads the configuration. An empty path skips the file. Environment
// variables override the file, with "__" as the hierarchy delimiter
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}
	return finish(k)
}

// LoadYAML is like Load with the file contents provided directly
func LoadYAML(data []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := LookupNetwork(c.Network); err != nil {
		return err
	}
	switch c.Chain {
	case ChainAssetHub, ChainRelay:
	default:
		return fmt.Errorf("invalid chain %q, expected %s or %s", c.Chain, ChainAssetHub, ChainRelay)
	}
	for _, endpoint := range c.Endpoints {
		if !strings.HasPrefix(endpoint, "ws://") && !strings.HasPrefix(endpoint, "wss://") {
			return fmt.Errorf("invalid endpoint %q: must be a ws:// or wss:// URL", endpoint)
		}
	}
	if c.Tx.Immortal && c.Tx.MortalPeriod > 0 {
		return errors.New("tx.immortal and tx.mortal_period are mutually exclusive")
	}
	if _, err := yield.ParseMovingAverageType(c.Yield.MovingAverage); err != nil {
		return err
	}
	if c.Yield.HistoryEras == 0 {
		return errors.New("yield.history_eras must be positive")
	}
	return c.Log.Validate()
}

func (c *LogConfig) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format %q, expected text or json", c.Format)
	}
}

func (c *LogConfig) level() (slog.Level, error) {
	var ret slog.Level
	if err := ret.UnmarshalText([]byte(c.Level)); err != nil {
		return ret, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return ret, nil
}

// NewLogger builds a logger writing to w
func (c *LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// NetworkInfo returns the configured network. It must have passed Validate
func (c *Config) NetworkInfo() Network {
	ret, _ := LookupNetwork(c.Network)
	return ret
}

// ResolvedEndpoints returns the configured endpoints, or the network's
// endpoints for the configured chain
func (c *Config) ResolvedEndpoints() []string {
	if len(c.Endpoints) > 0 {
		return c.Endpoints
	}
	network := c.NetworkInfo()
	if c.Chain == ChainRelay {
		return network.RelayEndpoints
	}
	return network.AssetHubEndpoints
}
