/*
Package config provides configuration of the ledger node.

Configuration is read from a YAML file. Missing sections are filled with
defaults: in-memory storage, info logging and the default Aura parameters.
Contract script hashes default to the hashes of the contract names.
*/
package config

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/ledger-contract/aura"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the ledger node configuration.
type Config struct {
	Storage   dbconfig.DBConfiguration `yaml:"Storage"`
	Logger    Logger                   `yaml:"Logger"`
	Aura      Aura                     `yaml:"Aura"`
	Contracts Contracts                `yaml:"Contracts"`
}

// Logger configures the zap logger.
type Logger struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"Level"`
	// Encoding is either console or json.
	Encoding string `yaml:"Encoding"`
}

// Aura contains fungible token parameters.
type Aura struct {
	Symbol   string `yaml:"Symbol"`
	Decimals int    `yaml:"Decimals"`
}

// Contracts contains script hashes the ledgers are deployed at.
type Contracts struct {
	Aura   util.Uint160 `yaml:"Aura"`
	Entity util.Uint160 `yaml:"Entity"`
}

// Default returns configuration used when no file is given.
func Default() Config {
	var c Config
	c.setDefaults()
	return c
}

// Load reads configuration from the YAML file at the given path.
func Load(path string) (Config, error) {
	var c Config

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, fmt.Errorf("decode YAML config: %w", err)
	}

	c.setDefaults()

	err = c.validate()
	if err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}

	return c, nil
}

func (c *Config) setDefaults() {
	if c.Storage.Type == "" {
		c.Storage.Type = "inmemory"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "console"
	}
	if c.Aura.Symbol == "" {
		c.Aura.Symbol = aura.DefaultSymbol
		c.Aura.Decimals = aura.DefaultDecimals
	}
	if c.Contracts.Aura.Equals(util.Uint160{}) {
		c.Contracts.Aura = hash.Hash160([]byte("aura"))
	}
	if c.Contracts.Entity.Equals(util.Uint160{}) {
		c.Contracts.Entity = hash.Hash160([]byte("entity"))
	}
}

func (c *Config) validate() error {
	if c.Aura.Decimals < 0 || c.Aura.Decimals > 18 {
		return fmt.Errorf("decimals out of [0, 18] range: %d", c.Aura.Decimals)
	}
	if c.Contracts.Aura.Equals(c.Contracts.Entity) {
		return fmt.Errorf("ledgers share contract hash %s", c.Contracts.Aura.StringLE())
	}
	_, err := zap.ParseAtomicLevel(c.Logger.Level)
	if err != nil {
		return fmt.Errorf("logger level: %w", err)
	}
	return nil
}

// NewLogger builds the logger configured by c.
func (c Logger) NewLogger() (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = c.Encoding
	cfg.DisableStacktrace = true
	if c.Encoding == "console" {
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return cfg.Build()
}
