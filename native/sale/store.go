package sale

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"launchpad/crypto"
	"launchpad/storage"
)

var (
	saleConfigKey     = []byte("sale/config")
	saleTotalsKey     = []byte("sale/totals")
	saleCurrenciesKey = []byte("sale/currencies")
	purchasePrefix    = []byte("sale/purchase/")
)

// Amounts are persisted as decimal strings so the stored form never depends
// on big.Int internals.
type storedSaleConfig struct {
	Wallet                 []byte
	SaleStart              uint64
	SaleEnd                uint64
	WithdrawStart          uint64
	WithdrawPeriodDuration uint64
	WithdrawPeriodNumber   uint64
	MinBuyValue            string
	MaxTokenPerAddress     string
	ExchangeRate           string
	ReferralPercentage     uint64
}

type storedPurchase struct {
	Address   []byte
	Value     string
	Claimable string
	Withdrawn string
}

type storedTotals struct {
	Sold        string
	Withdrawn   string
	Finalized   bool
	FinalizedAt uint64
}

type storedCurrencies struct {
	Addresses [][]byte
}

// Store persists the sale state in a key-value database using RLP encoding.
// It implements the engine's state contract.
type Store struct {
	db storage.Database
}

// NewStore constructs a Store backed by the provided database.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("sale: corrupt stored amount %q", s)
	}
	return amount, nil
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func purchaseKey(addr crypto.Address) []byte {
	return append(append([]byte{}, purchasePrefix...), addr[:]...)
}

func (s *Store) get(key []byte, out interface{}) (bool, error) {
	raw, err := s.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, fmt.Errorf("sale: decode %q: %w", key, err)
	}
	return true, nil
}

func (s *Store) put(key []byte, value interface{}) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("sale: encode %q: %w", key, err)
	}
	return s.db.Put(key, raw)
}

// SaleConfigGet loads the stored configuration.
func (s *Store) SaleConfigGet() (*SaleConfig, bool, error) {
	var stored storedSaleConfig
	ok, err := s.get(saleConfigKey, &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	wallet, err := crypto.AddressFromBytes(stored.Wallet)
	if err != nil {
		return nil, false, err
	}
	minBuy, err := parseAmount(stored.MinBuyValue)
	if err != nil {
		return nil, false, err
	}
	maxToken, err := parseAmount(stored.MaxTokenPerAddress)
	if err != nil {
		return nil, false, err
	}
	rate, err := parseAmount(stored.ExchangeRate)
	if err != nil {
		return nil, false, err
	}
	return &SaleConfig{
		Wallet:                 wallet,
		SaleStart:              int64(stored.SaleStart),
		SaleEnd:                int64(stored.SaleEnd),
		WithdrawStart:          int64(stored.WithdrawStart),
		WithdrawPeriodDuration: int64(stored.WithdrawPeriodDuration),
		WithdrawPeriodNumber:   stored.WithdrawPeriodNumber,
		MinBuyValue:            minBuy,
		MaxTokenPerAddress:     maxToken,
		ExchangeRate:           rate,
		ReferralPercentage:     stored.ReferralPercentage,
	}, true, nil
}

// SaleConfigPut persists the configuration.
func (s *Store) SaleConfigPut(cfg *SaleConfig) error {
	if cfg == nil {
		return ErrInvalidConfig
	}
	return s.put(saleConfigKey, &storedSaleConfig{
		Wallet:                 cfg.Wallet.Bytes(),
		SaleStart:              uint64(cfg.SaleStart),
		SaleEnd:                uint64(cfg.SaleEnd),
		WithdrawStart:          uint64(cfg.WithdrawStart),
		WithdrawPeriodDuration: uint64(cfg.WithdrawPeriodDuration),
		WithdrawPeriodNumber:   cfg.WithdrawPeriodNumber,
		MinBuyValue:            formatAmount(cfg.MinBuyValue),
		MaxTokenPerAddress:     formatAmount(cfg.MaxTokenPerAddress),
		ExchangeRate:           formatAmount(cfg.ExchangeRate),
		ReferralPercentage:     cfg.ReferralPercentage,
	})
}

// PurchaseGet loads the ledger entry for an address.
func (s *Store) PurchaseGet(addr crypto.Address) (*Purchase, bool, error) {
	var stored storedPurchase
	ok, err := s.get(purchaseKey(addr), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	value, err := parseAmount(stored.Value)
	if err != nil {
		return nil, false, err
	}
	claimable, err := parseAmount(stored.Claimable)
	if err != nil {
		return nil, false, err
	}
	withdrawn, err := parseAmount(stored.Withdrawn)
	if err != nil {
		return nil, false, err
	}
	return &Purchase{Address: addr, Value: value, Claimable: claimable, Withdrawn: withdrawn}, true, nil
}

// PurchasePut persists a ledger entry.
func (s *Store) PurchasePut(entry *Purchase) error {
	if entry == nil {
		return ErrInvalidAmount
	}
	return s.put(purchaseKey(entry.Address), &storedPurchase{
		Address:   entry.Address.Bytes(),
		Value:     formatAmount(entry.Value),
		Claimable: formatAmount(entry.Claimable),
		Withdrawn: formatAmount(entry.Withdrawn),
	})
}

// TotalsGet loads the global accounting, zero-valued when absent.
func (s *Store) TotalsGet() (*Totals, error) {
	var stored storedTotals
	ok, err := s.get(saleTotalsKey, &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return newTotals(), nil
	}
	sold, err := parseAmount(stored.Sold)
	if err != nil {
		return nil, err
	}
	withdrawn, err := parseAmount(stored.Withdrawn)
	if err != nil {
		return nil, err
	}
	return &Totals{
		Sold:        sold,
		Withdrawn:   withdrawn,
		Finalized:   stored.Finalized,
		FinalizedAt: int64(stored.FinalizedAt),
	}, nil
}

// TotalsPut persists the global accounting.
func (s *Store) TotalsPut(totals *Totals) error {
	if totals == nil {
		return ErrInvalidAmount
	}
	return s.put(saleTotalsKey, &storedTotals{
		Sold:        formatAmount(totals.Sold),
		Withdrawn:   formatAmount(totals.Withdrawn),
		Finalized:   totals.Finalized,
		FinalizedAt: uint64(totals.FinalizedAt),
	})
}

// CurrenciesGet loads the persisted payment currency set.
func (s *Store) CurrenciesGet() ([]crypto.Address, error) {
	var stored storedCurrencies
	ok, err := s.get(saleCurrenciesKey, &stored)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]crypto.Address, 0, len(stored.Addresses))
	for _, raw := range stored.Addresses {
		addr, err := crypto.AddressFromBytes(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// CurrenciesPut persists the payment currency set.
func (s *Store) CurrenciesPut(addrs []crypto.Address) error {
	stored := storedCurrencies{Addresses: make([][]byte, 0, len(addrs))}
	for _, addr := range addrs {
		stored.Addresses = append(stored.Addresses, addr.Bytes())
	}
	return s.put(saleCurrenciesKey, &stored)
}
