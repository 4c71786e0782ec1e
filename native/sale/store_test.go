package sale

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"launchpad/crypto"
	"launchpad/storage"
)

func TestStoreConfigRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemDB())

	_, ok, err := store.SaleConfigGet()
	require.NoError(t, err)
	require.False(t, ok)

	cfg := testConfig(addr(0x02))
	cfg.MaxTokenPerAddress = big.NewInt(30_000)
	require.NoError(t, store.SaleConfigPut(cfg))

	loaded, ok, err := store.SaleConfigGet()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cfg.Wallet, loaded.Wallet)
	require.Equal(t, cfg.SaleStart, loaded.SaleStart)
	require.Equal(t, cfg.SaleEnd, loaded.SaleEnd)
	require.Equal(t, cfg.WithdrawStart, loaded.WithdrawStart)
	require.Equal(t, cfg.WithdrawPeriodDuration, loaded.WithdrawPeriodDuration)
	require.Equal(t, cfg.WithdrawPeriodNumber, loaded.WithdrawPeriodNumber)
	require.Zero(t, cfg.MinBuyValue.Cmp(loaded.MinBuyValue))
	require.Zero(t, cfg.MaxTokenPerAddress.Cmp(loaded.MaxTokenPerAddress))
	require.Zero(t, cfg.ExchangeRate.Cmp(loaded.ExchangeRate))
	require.Equal(t, cfg.ReferralPercentage, loaded.ReferralPercentage)
}

func TestStorePurchaseRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemDB())
	buyer := addr(0x10)

	_, ok, err := store.PurchaseGet(buyer)
	require.NoError(t, err)
	require.False(t, ok)

	entry := &Purchase{
		Address:   buyer,
		Value:     big.NewInt(700),
		Claimable: big.NewInt(35_000),
		Withdrawn: big.NewInt(3_500),
	}
	require.NoError(t, store.PurchasePut(entry))

	loaded, ok, err := store.PurchaseGet(buyer)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, buyer, loaded.Address)
	require.Zero(t, loaded.Value.Cmp(big.NewInt(700)))
	require.Zero(t, loaded.Claimable.Cmp(big.NewInt(35_000)))
	require.Zero(t, loaded.Withdrawn.Cmp(big.NewInt(3_500)))

	// Entries are keyed per address.
	_, ok, err = store.PurchaseGet(addr(0x11))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreTotalsRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemDB())

	totals, err := store.TotalsGet()
	require.NoError(t, err)
	require.Zero(t, totals.Sold.Sign())
	require.False(t, totals.Finalized)

	totals = &Totals{
		Sold:        big.NewInt(35_400),
		Withdrawn:   big.NewInt(1_200),
		Finalized:   true,
		FinalizedAt: testSaleEnd,
	}
	require.NoError(t, store.TotalsPut(totals))

	loaded, err := store.TotalsGet()
	require.NoError(t, err)
	require.Zero(t, loaded.Sold.Cmp(big.NewInt(35_400)))
	require.Zero(t, loaded.Withdrawn.Cmp(big.NewInt(1_200)))
	require.True(t, loaded.Finalized)
	require.Equal(t, testSaleEnd, loaded.FinalizedAt)
}

func TestStoreCurrenciesRoundTrip(t *testing.T) {
	store := NewStore(storage.NewMemDB())

	loaded, err := store.CurrenciesGet()
	require.NoError(t, err)
	require.Empty(t, loaded)

	set := []crypto.Address{addr(0xC1), addr(0xC2)}
	require.NoError(t, store.CurrenciesPut(set))

	loaded, err = store.CurrenciesGet()
	require.NoError(t, err)
	require.Equal(t, set, loaded)
}

// The engine state survives a process restart: a fresh engine over the same
// database resumes with the committed config, currencies, and ledger entries.
func TestStoreEngineRestart(t *testing.T) {
	db := storage.NewMemDB()
	owner := addr(0x01)
	vault := addr(0x03)
	buyer := addr(0x10)
	usdcAddr := addr(0xC1)
	now := testSaleStart + 86400

	newEngine := func() *Engine {
		engine := NewEngine()
		engine.SetState(NewStore(db))
		engine.SetNowFunc(func() int64 { return now })
		engine.SetOwner(owner)
		engine.SetVault(vault)
		return engine
	}

	first := newEngine()
	require.NoError(t, first.Initialize(owner, testConfig(addr(0x02)), []crypto.Address{usdcAddr}))
	require.NoError(t, first.state.PurchasePut(&Purchase{
		Address:   buyer,
		Value:     big.NewInt(300),
		Claimable: big.NewInt(15_000),
		Withdrawn: big.NewInt(0),
	}))

	second := newEngine()
	require.NoError(t, second.Restore())
	require.True(t, second.IsAuthorizedCurrency(usdcAddr))

	cfg, err := second.Config()
	require.NoError(t, err)
	require.Equal(t, testSaleStart, cfg.SaleStart)

	claimable, err := second.ClaimableAmount(buyer)
	require.NoError(t, err)
	require.Zero(t, claimable.Cmp(big.NewInt(15_000)))
}
