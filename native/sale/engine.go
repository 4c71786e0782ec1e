package sale

import (
	"errors"
	"math/big"
	"strconv"
	"time"

	"launchpad/core/events"
	"launchpad/crypto"
	"launchpad/native/currency"
)

// ErrAlreadyInitialized is returned when Initialize runs against a sale that
// already carries a configuration.
var ErrAlreadyInitialized = errors.New("sale: already initialized")

// engineState is the persistence contract the engine requires from the
// surrounding state implementation.
type engineState interface {
	SaleConfigGet() (*SaleConfig, bool, error)
	SaleConfigPut(*SaleConfig) error
	PurchaseGet(addr crypto.Address) (*Purchase, bool, error)
	PurchasePut(*Purchase) error
	TotalsGet() (*Totals, error)
	TotalsPut(*Totals) error
	CurrenciesGet() ([]crypto.Address, error)
	CurrenciesPut([]crypto.Address) error
}

// Ledger is the minimal token capability the engine drives, satisfied by the
// sold token and by every payment currency.
type Ledger interface {
	BalanceOf(addr crypto.Address) *big.Int
	Transfer(from, to crypto.Address, amount *big.Int) error
	TransferFrom(spender, from, to crypto.Address, amount *big.Int) error
	Burn(from crypto.Address, amount *big.Int) error
}

// LedgerResolver maps a payment currency address onto its ledger.
type LedgerResolver func(crypto.Address) (Ledger, bool)

// Engine owns the sale configuration, the purchase ledger, the referral
// accounting and the vesting release logic. Every operation either completes
// fully or returns an error with no effect.
type Engine struct {
	state      engineState
	emitter    events.Emitter
	nowFn      func() int64
	owner      crypto.Address
	vault      crypto.Address
	token      Ledger
	currencies *currency.Registry
	resolve    LedgerResolver
}

// NewEngine constructs a sale engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter:    events.NoopEmitter{},
		nowFn:      func() int64 { return time.Now().Unix() },
		currencies: currency.NewRegistry(),
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetOwner configures the privileged operator.
func (e *Engine) SetOwner(owner crypto.Address) { e.owner = owner }

// SetVault configures the account holding the sale's token supply.
func (e *Engine) SetVault(vault crypto.Address) { e.vault = vault }

// SetToken configures the ledger of the sold token.
func (e *Engine) SetToken(token Ledger) { e.token = token }

// SetLedgerResolver configures payment currency lookup.
func (e *Engine) SetLedgerResolver(resolve LedgerResolver) { e.resolve = resolve }

// Owner returns the privileged operator.
func (e *Engine) Owner() crypto.Address { return e.owner }

// Vault returns the token holding account.
func (e *Engine) Vault() crypto.Address { return e.vault }

func (e *Engine) emit(evt *events.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// Restore reloads the authorized currency set from persisted state. Call it
// after SetState when resuming an existing sale.
func (e *Engine) Restore() error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	addrs, err := e.state.CurrenciesGet()
	if err != nil {
		return err
	}
	e.currencies.Load(addrs)
	return nil
}

func validateConfig(cfg *SaleConfig) error {
	if cfg == nil {
		return ErrInvalidConfig
	}
	if cfg.Wallet.IsZero() {
		return ErrInvalidConfig
	}
	if cfg.SaleStart <= 0 || cfg.SaleEnd <= cfg.SaleStart {
		return ErrInvalidConfig
	}
	if cfg.WithdrawStart < cfg.SaleEnd {
		return ErrInvalidConfig
	}
	if cfg.WithdrawPeriodDuration <= 0 || cfg.WithdrawPeriodNumber == 0 {
		return ErrInvalidConfig
	}
	if cfg.ExchangeRate == nil || cfg.ExchangeRate.Sign() <= 0 {
		return ErrInvalidConfig
	}
	if cfg.MinBuyValue != nil && cfg.MinBuyValue.Sign() < 0 {
		return ErrInvalidConfig
	}
	if cfg.MaxTokenPerAddress != nil && cfg.MaxTokenPerAddress.Sign() < 0 {
		return ErrInvalidConfig
	}
	if cfg.ReferralPercentage > 100 {
		return ErrInvalidConfig
	}
	return nil
}

// Initialize commits a fully parameterized sale in one step and authorizes
// the initial payment currencies. It fails if a configuration already exists.
func (e *Engine) Initialize(caller crypto.Address, cfg *SaleConfig, currencies []crypto.Address) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if caller != e.owner {
		return ErrUnauthorized
	}
	if _, ok, err := e.state.SaleConfigGet(); err != nil {
		return err
	} else if ok {
		return ErrAlreadyInitialized
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	stored := cfg.Clone().Normalize()
	if err := e.state.SaleConfigPut(stored); err != nil {
		return err
	}
	for _, addr := range currencies {
		if addr.IsZero() {
			return ErrInvalidConfig
		}
		e.currencies.Add(addr)
	}
	if err := e.state.CurrenciesPut(e.currencies.List()); err != nil {
		return err
	}
	e.emit(saleInitializedEvent(stored, e.currencies.List()))
	return nil
}

// --- configuration setters -------------------------------------------------

// ensureMutable rejects configuration changes once the committed sale start
// has been reached. The check always reads the currently stored start, so
// moving the start forward remains guarded by the previously committed value.
func (e *Engine) ensureMutable(cfg *SaleConfig) error {
	if cfg != nil && cfg.SaleStart > 0 && e.now() >= cfg.SaleStart {
		return ErrSaleStarted
	}
	return nil
}

func (e *Engine) mutateConfig(caller crypto.Address, field string, apply func(cfg *SaleConfig) (string, error)) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if caller != e.owner {
		return ErrUnauthorized
	}
	cfg, ok, err := e.state.SaleConfigGet()
	if err != nil {
		return err
	}
	if !ok || cfg == nil {
		cfg = (&SaleConfig{}).Normalize()
	}
	if err := e.ensureMutable(cfg); err != nil {
		return err
	}
	value, err := apply(cfg)
	if err != nil {
		return err
	}
	if err := e.state.SaleConfigPut(cfg); err != nil {
		return err
	}
	e.emit(configUpdatedEvent(field, value, caller))
	return nil
}

// SetWallet updates the treasury receiving payment proceeds.
func (e *Engine) SetWallet(caller, wallet crypto.Address) error {
	return e.mutateConfig(caller, "wallet", func(cfg *SaleConfig) (string, error) {
		if wallet.IsZero() {
			return "", ErrInvalidConfig
		}
		cfg.Wallet = wallet
		return wallet.String(), nil
	})
}

// SetSaleStart updates the opening timestamp of the purchase window.
func (e *Engine) SetSaleStart(caller crypto.Address, ts int64) error {
	return e.mutateConfig(caller, "saleStart", func(cfg *SaleConfig) (string, error) {
		if ts <= 0 || (cfg.SaleEnd > 0 && ts >= cfg.SaleEnd) {
			return "", ErrInvalidConfig
		}
		cfg.SaleStart = ts
		return strconv.FormatInt(ts, 10), nil
	})
}

// SetSaleEnd updates the closing timestamp of the purchase window.
func (e *Engine) SetSaleEnd(caller crypto.Address, ts int64) error {
	return e.mutateConfig(caller, "saleEnd", func(cfg *SaleConfig) (string, error) {
		if ts <= cfg.SaleStart {
			return "", ErrInvalidConfig
		}
		cfg.SaleEnd = ts
		return strconv.FormatInt(ts, 10), nil
	})
}

// SetWithdrawStart updates the vesting cliff.
func (e *Engine) SetWithdrawStart(caller crypto.Address, ts int64) error {
	return e.mutateConfig(caller, "withdrawStart", func(cfg *SaleConfig) (string, error) {
		if ts < cfg.SaleEnd {
			return "", ErrInvalidConfig
		}
		cfg.WithdrawStart = ts
		return strconv.FormatInt(ts, 10), nil
	})
}

// SetWithdrawPeriodDuration updates the tranche length in seconds.
func (e *Engine) SetWithdrawPeriodDuration(caller crypto.Address, seconds int64) error {
	return e.mutateConfig(caller, "withdrawPeriodDuration", func(cfg *SaleConfig) (string, error) {
		if seconds <= 0 {
			return "", ErrInvalidConfig
		}
		cfg.WithdrawPeriodDuration = seconds
		return strconv.FormatInt(seconds, 10), nil
	})
}

// SetWithdrawPeriodNumber updates the number of vesting tranches.
func (e *Engine) SetWithdrawPeriodNumber(caller crypto.Address, n uint64) error {
	return e.mutateConfig(caller, "withdrawPeriodNumber", func(cfg *SaleConfig) (string, error) {
		if n == 0 {
			return "", ErrInvalidConfig
		}
		cfg.WithdrawPeriodNumber = n
		return strconv.FormatUint(n, 10), nil
	})
}

// SetMinBuyValue updates the minimum payment per purchase.
func (e *Engine) SetMinBuyValue(caller crypto.Address, value *big.Int) error {
	return e.mutateConfig(caller, "minBuyValue", func(cfg *SaleConfig) (string, error) {
		if value == nil || value.Sign() < 0 {
			return "", ErrInvalidConfig
		}
		cfg.MinBuyValue = new(big.Int).Set(value)
		return value.String(), nil
	})
}

// SetMaxTokenPerAddress updates the lifetime per-buyer token cap. Zero
// disables the cap.
func (e *Engine) SetMaxTokenPerAddress(caller crypto.Address, value *big.Int) error {
	return e.mutateConfig(caller, "maxTokenPerAddress", func(cfg *SaleConfig) (string, error) {
		if value == nil || value.Sign() < 0 {
			return "", ErrInvalidConfig
		}
		cfg.MaxTokenPerAddress = new(big.Int).Set(value)
		return value.String(), nil
	})
}

// SetExchangeRate updates the payment-to-token multiplier.
func (e *Engine) SetExchangeRate(caller crypto.Address, rate *big.Int) error {
	return e.mutateConfig(caller, "exchangeRate", func(cfg *SaleConfig) (string, error) {
		if rate == nil || rate.Sign() <= 0 {
			return "", ErrInvalidConfig
		}
		cfg.ExchangeRate = new(big.Int).Set(rate)
		return rate.String(), nil
	})
}

// SetReferralPercentage updates the referral bonus percentage (0-100).
func (e *Engine) SetReferralPercentage(caller crypto.Address, pct uint64) error {
	return e.mutateConfig(caller, "referralPercentage", func(cfg *SaleConfig) (string, error) {
		if pct > 100 {
			return "", ErrInvalidConfig
		}
		cfg.ReferralPercentage = pct
		return strconv.FormatUint(pct, 10), nil
	})
}

// AuthorizePaymentCurrencies appends the given currencies to the authorized
// set. Re-adding is a no-op; one inclusion event is emitted per address
// processed. Gated like the other setters: owner-only, sale not started.
func (e *Engine) AuthorizePaymentCurrencies(caller crypto.Address, addrs []crypto.Address) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if caller != e.owner {
		return ErrUnauthorized
	}
	cfg, _, err := e.state.SaleConfigGet()
	if err != nil {
		return err
	}
	if err := e.ensureMutable(cfg); err != nil {
		return err
	}
	for _, addr := range addrs {
		if addr.IsZero() {
			return ErrInvalidConfig
		}
	}
	for _, addr := range addrs {
		e.currencies.Add(addr)
		e.emit(currencyAuthorizedEvent(addr))
	}
	return e.state.CurrenciesPut(e.currencies.List())
}

// TransferOwnership rotates the sale operator. Owner-only, allowed in any
// phase.
func (e *Engine) TransferOwnership(caller, newOwner crypto.Address) error {
	if caller != e.owner {
		return ErrUnauthorized
	}
	if newOwner.IsZero() {
		return ErrInvalidConfig
	}
	previous := e.owner
	e.owner = newOwner
	e.emit(ownershipTransferredEvent(previous, newOwner))
	return nil
}

// --- purchase --------------------------------------------------------------

// PurchaseResult reports the outcome of a successful purchase.
type PurchaseResult struct {
	Buyer          crypto.Address
	Currency       crypto.Address
	Value          *big.Int
	Referral       crypto.Address
	TokenAmount    *big.Int
	ReferralAmount *big.Int
	Claimable      *big.Int
}

func (e *Engine) loadConfig() (*SaleConfig, error) {
	cfg, ok, err := e.state.SaleConfigGet()
	if err != nil {
		return nil, err
	}
	if !ok || cfg == nil || validateConfig(cfg) != nil {
		return nil, ErrNotConfigured
	}
	return cfg.Normalize(), nil
}

func (e *Engine) loadPurchase(addr crypto.Address) (*Purchase, error) {
	entry, ok, err := e.state.PurchaseGet(addr)
	if err != nil {
		return nil, err
	}
	if !ok || entry == nil {
		return newPurchase(addr), nil
	}
	if entry.Value == nil {
		entry.Value = big.NewInt(0)
	}
	if entry.Claimable == nil {
		entry.Claimable = big.NewInt(0)
	}
	if entry.Withdrawn == nil {
		entry.Withdrawn = big.NewInt(0)
	}
	return entry, nil
}

func (e *Engine) loadTotals() (*Totals, error) {
	totals, err := e.state.TotalsGet()
	if err != nil {
		return nil, err
	}
	if totals == nil {
		return newTotals(), nil
	}
	if totals.Sold == nil {
		totals.Sold = big.NewInt(0)
	}
	if totals.Withdrawn == nil {
		totals.Withdrawn = big.NewInt(0)
	}
	return totals, nil
}

// validateReferral enforces the referral model: the zero sentinel opts out;
// otherwise the referral must be a prior buyer distinct from the buyer.
func (e *Engine) validateReferral(buyer, referral crypto.Address) error {
	if referral.IsZero() {
		return nil
	}
	if referral == buyer {
		return ErrInvalidReferral
	}
	entry, ok, err := e.state.PurchaseGet(referral)
	if err != nil {
		return err
	}
	if !ok || entry == nil || entry.Claimable == nil || entry.Claimable.Sign() == 0 {
		return ErrInvalidReferral
	}
	return nil
}

// BuyToken processes a purchase of the sold token against an authorized
// payment currency. Preconditions are checked in a fixed order, each mapping
// to a distinct error; all effects apply atomically or not at all.
func (e *Engine) BuyToken(buyer, currencyAddr crypto.Address, value *big.Int, referral crypto.Address) (*PurchaseResult, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.token == nil || e.resolve == nil {
		return nil, ErrTokenNotConfigured
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	now := e.now()
	if now < cfg.SaleStart {
		return nil, ErrNotStarted
	}
	if now >= cfg.SaleEnd {
		return nil, ErrSaleEnded
	}
	if !e.currencies.Contains(currencyAddr) {
		return nil, ErrUnauthorizedCurrency
	}
	payment, ok := e.resolve(currencyAddr)
	if !ok {
		return nil, ErrUnauthorizedCurrency
	}
	if value == nil || value.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if value.Cmp(cfg.MinBuyValue) < 0 {
		return nil, ErrBelowMinimum
	}
	entry, err := e.loadPurchase(buyer)
	if err != nil {
		return nil, err
	}
	if cfg.MaxTokenPerAddress.Sign() > 0 {
		cumulative := new(big.Int).Add(entry.Value, value)
		cumulative.Mul(cumulative, cfg.ExchangeRate)
		if cumulative.Cmp(cfg.MaxTokenPerAddress) > 0 {
			return nil, ErrAboveMaximum
		}
	}
	if err := e.validateReferral(buyer, referral); err != nil {
		return nil, err
	}

	tokenAmount := new(big.Int).Mul(value, cfg.ExchangeRate)
	referralAmount := big.NewInt(0)
	if !referral.IsZero() && cfg.ReferralPercentage > 0 {
		referralAmount = new(big.Int).Mul(tokenAmount, new(big.Int).SetUint64(cfg.ReferralPercentage))
		referralAmount.Div(referralAmount, big.NewInt(100))
	}
	allocation := new(big.Int).Add(tokenAmount, referralAmount)

	totals, err := e.loadTotals()
	if err != nil {
		return nil, err
	}
	remaining := new(big.Int).Sub(e.token.BalanceOf(e.vault), totals.Outstanding())
	if allocation.Cmp(remaining) > 0 {
		return nil, ErrInsufficientSupply
	}

	// The payment pull is the only effect that can fail on caller input
	// (balance, allowance); it runs before any ledger write. Every effect
	// after it is pushed onto the undo stack so a later write failure
	// unwinds in reverse order, refund included.
	var undo []func() error
	fail := func(cause error) (*PurchaseResult, error) {
		for i := len(undo) - 1; i >= 0; i-- {
			if err := undo[i](); err != nil {
				return nil, errors.Join(cause, err)
			}
		}
		return nil, cause
	}

	if err := payment.TransferFrom(e.vault, buyer, cfg.Wallet, value); err != nil {
		return nil, err
	}
	undo = append(undo, func() error {
		return payment.Transfer(cfg.Wallet, buyer, value)
	})

	entryBefore := entry.Clone()
	entry.Value = new(big.Int).Add(entry.Value, value)
	entry.Claimable = new(big.Int).Add(entry.Claimable, tokenAmount)
	if err := e.state.PurchasePut(entry); err != nil {
		return fail(err)
	}
	undo = append(undo, func() error {
		return e.state.PurchasePut(entryBefore)
	})

	if referralAmount.Sign() > 0 {
		refEntry, err := e.loadPurchase(referral)
		if err != nil {
			return fail(err)
		}
		refBefore := refEntry.Clone()
		refEntry.Claimable = new(big.Int).Add(refEntry.Claimable, referralAmount)
		if err := e.state.PurchasePut(refEntry); err != nil {
			return fail(err)
		}
		undo = append(undo, func() error {
			return e.state.PurchasePut(refBefore)
		})
	}
	totals.Sold = new(big.Int).Add(totals.Sold, allocation)
	if err := e.state.TotalsPut(totals); err != nil {
		return fail(err)
	}

	e.emit(tokenBoughtEvent(buyer, currencyAddr, referral, value, tokenAmount, referralAmount))
	return &PurchaseResult{
		Buyer:          buyer,
		Currency:       currencyAddr,
		Value:          new(big.Int).Set(value),
		Referral:       referral,
		TokenAmount:    tokenAmount,
		ReferralAmount: referralAmount,
		Claimable:      new(big.Int).Set(entry.Claimable),
	}, nil
}

// --- vesting withdrawal ----------------------------------------------------

// WithdrawToken releases the vested share of the caller's claimable balance.
// A call that unlocks nothing new succeeds with a zero payout.
func (e *Engine) WithdrawToken(account crypto.Address) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.token == nil {
		return nil, ErrTokenNotConfigured
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	now := e.now()
	if now < cfg.WithdrawStart {
		return nil, ErrCliffNotReached
	}
	entry, err := e.loadPurchase(account)
	if err != nil {
		return nil, err
	}
	elapsed := elapsedPeriods(now, cfg.WithdrawStart, cfg.WithdrawPeriodDuration, cfg.WithdrawPeriodNumber)
	unlocked := unlockedAmount(entry.Claimable, elapsed, cfg.WithdrawPeriodNumber)
	payout := new(big.Int).Sub(unlocked, entry.Withdrawn)
	if payout.Sign() <= 0 {
		e.emit(tokenWithdrawnEvent(account, big.NewInt(0)))
		return big.NewInt(0), nil
	}
	totals, err := e.loadTotals()
	if err != nil {
		return nil, err
	}

	// State writes commit before the token moves: a failed write returns
	// with nothing paid out, so a retry releases the tranche exactly once.
	entryBefore := entry.Clone()
	entry.Withdrawn = new(big.Int).Add(entry.Withdrawn, payout)
	if err := e.state.PurchasePut(entry); err != nil {
		return nil, err
	}
	totalsBefore := totals.Clone()
	totals.Withdrawn = new(big.Int).Add(totals.Withdrawn, payout)
	if err := e.state.TotalsPut(totals); err != nil {
		if rbErr := e.state.PurchasePut(entryBefore); rbErr != nil {
			return nil, errors.Join(err, rbErr)
		}
		return nil, err
	}
	if err := e.token.Transfer(e.vault, account, payout); err != nil {
		rbErr := errors.Join(
			e.state.PurchasePut(entryBefore),
			e.state.TotalsPut(totalsBefore),
		)
		if rbErr != nil {
			return nil, errors.Join(err, rbErr)
		}
		return nil, err
	}
	e.emit(tokenWithdrawnEvent(account, payout))
	return payout, nil
}

// --- finalization ----------------------------------------------------------

// FinalizeSale burns the unsold remainder of the vault once the sale window
// has closed. It is public and idempotent: the burn targets only tokens never
// allocated to a buyer, so outstanding vesting withdrawals stay funded, and a
// repeat call with nothing left to burn succeeds burning zero.
func (e *Engine) FinalizeSale() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.token == nil {
		return nil, ErrTokenNotConfigured
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	now := e.now()
	if now < cfg.SaleEnd {
		return nil, ErrSaleNotEnded
	}
	totals, err := e.loadTotals()
	if err != nil {
		return nil, err
	}
	remainder := new(big.Int).Sub(e.token.BalanceOf(e.vault), totals.Outstanding())
	if remainder.Sign() > 0 {
		if err := e.token.Burn(e.vault, remainder); err != nil {
			return nil, err
		}
	} else {
		remainder = big.NewInt(0)
	}
	if !totals.Finalized {
		totals.Finalized = true
		totals.FinalizedAt = now
		if err := e.state.TotalsPut(totals); err != nil {
			return nil, err
		}
	}
	e.emit(saleFinalizedEvent(remainder, now))
	return remainder, nil
}

// --- queries ---------------------------------------------------------------

// Config returns a snapshot of the stored configuration.
func (e *Engine) Config() (*SaleConfig, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	cfg, ok, err := e.state.SaleConfigGet()
	if err != nil {
		return nil, err
	}
	if !ok || cfg == nil {
		return nil, ErrNotConfigured
	}
	return cfg.Clone(), nil
}

// PurchaseOf returns the ledger entry for an address, zero-valued when the
// address never bought.
func (e *Engine) PurchaseOf(addr crypto.Address) (*Purchase, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	entry, err := e.loadPurchase(addr)
	if err != nil {
		return nil, err
	}
	return entry.Clone(), nil
}

// ClaimableAmount returns the tokens allocated to an address.
func (e *Engine) ClaimableAmount(addr crypto.Address) (*big.Int, error) {
	entry, err := e.PurchaseOf(addr)
	if err != nil {
		return nil, err
	}
	return entry.Claimable, nil
}

// WithdrawnAmount returns the tokens already released to an address.
func (e *Engine) WithdrawnAmount(addr crypto.Address) (*big.Int, error) {
	entry, err := e.PurchaseOf(addr)
	if err != nil {
		return nil, err
	}
	return entry.Withdrawn, nil
}

// SoldAmount returns the global allocated total, referral rewards included.
func (e *Engine) SoldAmount() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	totals, err := e.loadTotals()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(totals.Sold), nil
}

// SaleTotals returns a snapshot of the global accounting.
func (e *Engine) SaleTotals() (*Totals, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	totals, err := e.loadTotals()
	if err != nil {
		return nil, err
	}
	return totals.Clone(), nil
}

// IsAuthorizedCurrency reports whether addr may be used for payment.
func (e *Engine) IsAuthorizedCurrency(addr crypto.Address) bool {
	return e.currencies.Contains(addr)
}

// AuthorizedCurrencies lists the payment currency set in insertion order.
func (e *Engine) AuthorizedCurrencies() []crypto.Address {
	return e.currencies.List()
}

// RemainingSupply returns the vault balance not yet allocated to any buyer.
func (e *Engine) RemainingSupply() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.token == nil {
		return nil, ErrTokenNotConfigured
	}
	totals, err := e.loadTotals()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Sub(e.token.BalanceOf(e.vault), totals.Outstanding()), nil
}
