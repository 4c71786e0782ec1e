package sale

import (
	"math/big"

	"launchpad/crypto"
)

// SaleConfig is the full parameter set of one sale instance. It is mutable by
// the owner only while the sale has not started; after that every setter
// rejects with ErrSaleStarted.
type SaleConfig struct {
	// Wallet receives payment-currency proceeds.
	Wallet crypto.Address `json:"wallet"`
	// SaleStart and SaleEnd bound the purchase window (Unix seconds).
	SaleStart int64 `json:"saleStart"`
	SaleEnd   int64 `json:"saleEnd"`
	// WithdrawStart is the vesting cliff; no tokens move before it.
	WithdrawStart int64 `json:"withdrawStart"`
	// WithdrawPeriodDuration is the tranche length in seconds.
	WithdrawPeriodDuration int64 `json:"withdrawPeriodDuration"`
	// WithdrawPeriodNumber is the number of tranches until full release.
	WithdrawPeriodNumber uint64 `json:"withdrawPeriodNumber"`
	// MinBuyValue is the smallest accepted payment per purchase.
	MinBuyValue *big.Int `json:"minBuyValue"`
	// MaxTokenPerAddress caps the lifetime token allocation of one buyer.
	// Nil or zero disables the cap.
	MaxTokenPerAddress *big.Int `json:"maxTokenPerAddress"`
	// ExchangeRate converts payment value into token amount.
	ExchangeRate *big.Int `json:"exchangeRate"`
	// ReferralPercentage is the referral bonus, 0-100.
	ReferralPercentage uint64 `json:"referralPercentage"`
}

// Clone returns a deep copy of the configuration.
func (c *SaleConfig) Clone() *SaleConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.MinBuyValue != nil {
		clone.MinBuyValue = new(big.Int).Set(c.MinBuyValue)
	}
	if c.MaxTokenPerAddress != nil {
		clone.MaxTokenPerAddress = new(big.Int).Set(c.MaxTokenPerAddress)
	}
	if c.ExchangeRate != nil {
		clone.ExchangeRate = new(big.Int).Set(c.ExchangeRate)
	}
	return &clone
}

// Normalize replaces nil amounts with zero so arithmetic never needs nil
// checks downstream.
func (c *SaleConfig) Normalize() *SaleConfig {
	if c == nil {
		return nil
	}
	if c.MinBuyValue == nil {
		c.MinBuyValue = big.NewInt(0)
	}
	if c.MaxTokenPerAddress == nil {
		c.MaxTokenPerAddress = big.NewInt(0)
	}
	if c.ExchangeRate == nil {
		c.ExchangeRate = big.NewInt(0)
	}
	return c
}

// Purchase is the per-buyer ledger entry. Claimable accumulates over
// purchases and referral rewards; Withdrawn grows as vesting releases tokens.
type Purchase struct {
	Address crypto.Address `json:"address"`
	// Value is the cumulative payment value spent by the buyer, used for
	// the lifetime cap. Referral rewards do not contribute to it.
	Value     *big.Int `json:"value"`
	Claimable *big.Int `json:"claimable"`
	Withdrawn *big.Int `json:"withdrawn"`
}

func newPurchase(addr crypto.Address) *Purchase {
	return &Purchase{
		Address:   addr,
		Value:     big.NewInt(0),
		Claimable: big.NewInt(0),
		Withdrawn: big.NewInt(0),
	}
}

// Clone returns a deep copy of the purchase entry.
func (p *Purchase) Clone() *Purchase {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Value != nil {
		clone.Value = new(big.Int).Set(p.Value)
	}
	if p.Claimable != nil {
		clone.Claimable = new(big.Int).Set(p.Claimable)
	}
	if p.Withdrawn != nil {
		clone.Withdrawn = new(big.Int).Set(p.Withdrawn)
	}
	return &clone
}

// Outstanding returns the tokens still owed to the buyer under vesting.
func (p *Purchase) Outstanding() *big.Int {
	if p == nil || p.Claimable == nil {
		return big.NewInt(0)
	}
	out := new(big.Int).Set(p.Claimable)
	if p.Withdrawn != nil {
		out.Sub(out, p.Withdrawn)
	}
	return out
}

// Totals is the global sale accounting: tokens allocated across all buyers
// (purchases plus referral rewards), tokens already released under vesting,
// and the finalization marker.
type Totals struct {
	Sold        *big.Int `json:"sold"`
	Withdrawn   *big.Int `json:"withdrawn"`
	Finalized   bool     `json:"finalized"`
	FinalizedAt int64    `json:"finalizedAt"`
}

func newTotals() *Totals {
	return &Totals{Sold: big.NewInt(0), Withdrawn: big.NewInt(0)}
}

// Clone returns a deep copy of the totals.
func (t *Totals) Clone() *Totals {
	if t == nil {
		return nil
	}
	clone := *t
	if t.Sold != nil {
		clone.Sold = new(big.Int).Set(t.Sold)
	}
	if t.Withdrawn != nil {
		clone.Withdrawn = new(big.Int).Set(t.Withdrawn)
	}
	return &clone
}

// Outstanding returns the tokens allocated but not yet withdrawn across all
// buyers. Finalization must leave at least this much in the vault.
func (t *Totals) Outstanding() *big.Int {
	if t == nil || t.Sold == nil {
		return big.NewInt(0)
	}
	out := new(big.Int).Set(t.Sold)
	if t.Withdrawn != nil {
		out.Sub(out, t.Withdrawn)
	}
	return out
}
