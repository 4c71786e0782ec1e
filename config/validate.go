package config

import (
	"fmt"
	"math/big"
)

func parseAmount(field, s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("config: %s: invalid amount %q", field, s)
	}
	return amount, nil
}

// InitialSupplyAmount parses the configured token supply.
func (c *Config) InitialSupplyAmount() (*big.Int, error) {
	return parseAmount("Token.InitialSupply", c.Token.InitialSupply)
}

// MinBuyValueAmount parses the configured minimum purchase value.
func (c *Config) MinBuyValueAmount() (*big.Int, error) {
	return parseAmount("Sale.MinBuyValue", c.Sale.MinBuyValue)
}

// MaxTokenPerAddressAmount parses the configured lifetime cap.
func (c *Config) MaxTokenPerAddressAmount() (*big.Int, error) {
	return parseAmount("Sale.MaxTokenPerAddress", c.Sale.MaxTokenPerAddress)
}

// ExchangeRateAmount parses the configured exchange rate.
func (c *Config) ExchangeRateAmount() (*big.Int, error) {
	return parseAmount("Sale.ExchangeRate", c.Sale.ExchangeRate)
}

// Validate checks the sale parameters for internal consistency. It does not
// require them to be set: a skeleton config is legal and the operator
// finishes parameterization through the RPC setters before the sale starts.
func (c *Config) Validate() error {
	s := c.Sale
	if s.SaleStart != 0 && s.SaleEnd != 0 && s.SaleEnd <= s.SaleStart {
		return fmt.Errorf("config: Sale.SaleEnd must be after Sale.SaleStart")
	}
	if s.WithdrawStart != 0 && s.SaleEnd != 0 && s.WithdrawStart < s.SaleEnd {
		return fmt.Errorf("config: Sale.WithdrawStart must not precede Sale.SaleEnd")
	}
	if s.WithdrawPeriodDuration < 0 {
		return fmt.Errorf("config: Sale.WithdrawPeriodDuration must be positive")
	}
	if s.ReferralPercentage > 100 {
		return fmt.Errorf("config: Sale.ReferralPercentage must be 0-100")
	}
	if _, err := c.InitialSupplyAmount(); err != nil {
		return err
	}
	if _, err := c.MinBuyValueAmount(); err != nil {
		return err
	}
	if _, err := c.MaxTokenPerAddressAmount(); err != nil {
		return err
	}
	rate, err := c.ExchangeRateAmount()
	if err != nil {
		return err
	}
	if rate.Sign() == 0 {
		return fmt.Errorf("config: Sale.ExchangeRate must be positive")
	}
	return nil
}
