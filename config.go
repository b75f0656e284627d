package cryptotax

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration: which assets to track, where the
// exchange exports live, and the tax parameters.
type Config struct {
	Currency  string   `yaml:"currency"`  // reporting currency
	Allowance float64  `yaml:"allowance"` // annual tax-free profit allowance
	Exports   string   `yaml:"exports"`   // directory holding the exchange export files
	Assets    []string `yaml:"assets"`

	Binance ProviderConfig `yaml:"binance"`
	Kraken  ProviderConfig `yaml:"kraken"`
}

// ProviderConfig tunes one price provider.
type ProviderConfig struct {
	// Symbols pins the provider's symbol listing. When set, the listing
	// is not fetched from the exchange (offline runs, tests).
	Symbols []string `yaml:"symbols"`
}

// LoadConfig reads the YAML run configuration from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	if cfg.Allowance == 0 {
		cfg.Allowance = DefaultAllowance
	}
	if len(cfg.Assets) == 0 {
		return nil, fmt.Errorf("config %s: no assets to track", path)
	}
	if cfg.Exports == "" {
		return nil, fmt.Errorf("config %s: no exports directory", path)
	}
	return &cfg, nil
}

// Providers builds the resolver's provider list from the configuration,
// in priority order.
func (c *Config) Providers() ([]Provider, error) {
	var binance Provider
	var err error
	if len(c.Binance.Symbols) > 0 {
		binance = NewBinanceWithSymbols(c.Binance.Symbols...)
	} else if binance, err = NewBinance(); err != nil {
		return nil, err
	}

	var kraken Provider
	if len(c.Kraken.Symbols) > 0 {
		kraken = NewKrakenWithSymbols(c.Kraken.Symbols...)
	} else if kraken, err = NewKraken(); err != nil {
		return nil, err
	}

	return []Provider{binance, kraken}, nil
}
