package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// TokenConfig describes the sold token minted at startup.
type TokenConfig struct {
	Name          string `toml:"Name"`
	Symbol        string `toml:"Symbol"`
	InitialSupply string `toml:"InitialSupply"`
}

// SaleParams is the bootstrap parameter set committed to the engine when the
// daemon starts against an empty database.
type SaleParams struct {
	Owner                  string   `toml:"Owner"`
	Wallet                 string   `toml:"Wallet"`
	SaleStart              int64    `toml:"SaleStart"`
	SaleEnd                int64    `toml:"SaleEnd"`
	WithdrawStart          int64    `toml:"WithdrawStart"`
	WithdrawPeriodDuration int64    `toml:"WithdrawPeriodDuration"`
	WithdrawPeriodNumber   uint64   `toml:"WithdrawPeriodNumber"`
	MinBuyValue            string   `toml:"MinBuyValue"`
	MaxTokenPerAddress     string   `toml:"MaxTokenPerAddress"`
	ExchangeRate           string   `toml:"ExchangeRate"`
	ReferralPercentage     uint64   `toml:"ReferralPercentage"`
	AuthorizedCurrencies   []string `toml:"AuthorizedCurrencies"`
}

// Config is the saled daemon configuration.
type Config struct {
	ListenAddress string      `toml:"ListenAddress"`
	DataDir       string      `toml:"DataDir"`
	Env           string      `toml:"Env"`
	Token         TokenConfig `toml:"Token"`
	Sale          SaleParams  `toml:"Sale"`
}

// Load reads the configuration from path, creating a commented default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8645"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./saled-data"
	}
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Token.Name == "" {
		cfg.Token.Name = "Launchpad Token"
	}
	if cfg.Token.Symbol == "" {
		cfg.Token.Symbol = "LPT"
	}
	if cfg.Token.InitialSupply == "" {
		cfg.Token.InitialSupply = "1000000000000000000000000"
	}
	if cfg.Sale.ExchangeRate == "" {
		cfg.Sale.ExchangeRate = "50"
	}
	if cfg.Sale.MinBuyValue == "" {
		cfg.Sale.MinBuyValue = "0"
	}
	if cfg.Sale.MaxTokenPerAddress == "" {
		cfg.Sale.MaxTokenPerAddress = "0"
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: write default %s: %w", path, err)
	}
	return cfg, nil
}
