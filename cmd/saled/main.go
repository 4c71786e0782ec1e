package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"launchpad/config"
	"launchpad/crypto"
	"launchpad/native/sale"
	"launchpad/native/token"
	"launchpad/observability/logging"
	"launchpad/rpc"
	"launchpad/storage"
)

// devCurrencySupply funds each payment currency's owner balance in --dev runs
// so purchases can be exercised without an external ledger.
var devCurrencySupply, _ = new(big.Int).SetString("1000000000000000000000000", 10)

func main() {
	configFile := flag.String("config", "./saled.toml", "Path to the configuration file")
	dev := flag.Bool("dev", false, "Run with an in-memory database and funded dev currencies")
	flag.Parse()

	if err := run(*configFile, *dev); err != nil {
		slog.Error("saled exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configFile string, dev bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := logging.Setup("saled", cfg.Env)

	if cfg.Sale.Owner == "" {
		return errors.New("config: Sale.Owner is required")
	}
	owner, err := crypto.DecodeAddress(cfg.Sale.Owner)
	if err != nil {
		return fmt.Errorf("config: Sale.Owner: %w", err)
	}

	var db storage.Database
	if dev {
		db = storage.NewMemDB()
	} else {
		db, err = storage.NewLevelDB(filepath.Join(cfg.DataDir, "sale"))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
	}
	defer db.Close()

	supply, err := cfg.InitialSupplyAmount()
	if err != nil {
		return err
	}
	soldToken := token.New(cfg.Token.Name, cfg.Token.Symbol, supply, owner)

	paymentLedgers := make(map[crypto.Address]*token.Token)
	for _, raw := range cfg.Sale.AuthorizedCurrencies {
		addr, err := crypto.DecodeAddress(raw)
		if err != nil {
			return fmt.Errorf("config: Sale.AuthorizedCurrencies: %w", err)
		}
		initial := big.NewInt(0)
		if dev {
			initial = devCurrencySupply
		}
		paymentLedgers[addr] = token.New("Stable Coin", "STB", initial, owner)
	}

	vault := crypto.ModuleAddress("sale/vault")
	if supply.Sign() > 0 {
		if err := soldToken.Transfer(owner, vault, supply); err != nil {
			return fmt.Errorf("fund sale vault: %w", err)
		}
	}

	store := sale.NewStore(db)
	engine := sale.NewEngine()
	engine.SetState(store)
	engine.SetOwner(owner)
	engine.SetVault(vault)
	engine.SetToken(soldToken)
	engine.SetLedgerResolver(func(addr crypto.Address) (sale.Ledger, bool) {
		ledger, ok := paymentLedgers[addr]
		return ledger, ok
	})
	if err := engine.Restore(); err != nil {
		return fmt.Errorf("restore sale state: %w", err)
	}
	if err := bootstrapSale(engine, cfg, owner, logger); err != nil {
		return err
	}

	logger.Info("sale engine ready",
		slog.String("owner", owner.String()),
		slog.String("vault", engine.Vault().String()),
		slog.String("token", cfg.Token.Symbol),
		slog.Int("currencies", len(paymentLedgers)),
	)

	server := rpc.NewServer(engine, soldToken, func(addr crypto.Address) (*token.Token, bool) {
		ledger, ok := paymentLedgers[addr]
		return ledger, ok
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("address", cfg.ListenAddress))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// bootstrapSale commits the configured sale parameters when the database does
// not yet hold a configuration. A partially specified config is left for the
// operator to complete through the RPC setters.
func bootstrapSale(engine *sale.Engine, cfg *config.Config, owner crypto.Address, logger *slog.Logger) error {
	if _, err := engine.Config(); err == nil {
		return nil
	} else if !errors.Is(err, sale.ErrNotConfigured) {
		return err
	}

	s := cfg.Sale
	if s.Wallet == "" || s.SaleStart == 0 || s.SaleEnd == 0 || s.WithdrawStart == 0 ||
		s.WithdrawPeriodDuration == 0 || s.WithdrawPeriodNumber == 0 {
		logger.Info("sale not bootstrapped; complete parameterization via /sale/config")
		return nil
	}
	wallet, err := crypto.DecodeAddress(s.Wallet)
	if err != nil {
		return fmt.Errorf("config: Sale.Wallet: %w", err)
	}
	minBuy, err := cfg.MinBuyValueAmount()
	if err != nil {
		return err
	}
	maxToken, err := cfg.MaxTokenPerAddressAmount()
	if err != nil {
		return err
	}
	rate, err := cfg.ExchangeRateAmount()
	if err != nil {
		return err
	}
	currencies := make([]crypto.Address, 0, len(s.AuthorizedCurrencies))
	for _, raw := range s.AuthorizedCurrencies {
		addr, err := crypto.DecodeAddress(raw)
		if err != nil {
			return fmt.Errorf("config: Sale.AuthorizedCurrencies: %w", err)
		}
		currencies = append(currencies, addr)
	}
	saleCfg := &sale.SaleConfig{
		Wallet:                 wallet,
		SaleStart:              s.SaleStart,
		SaleEnd:                s.SaleEnd,
		WithdrawStart:          s.WithdrawStart,
		WithdrawPeriodDuration: s.WithdrawPeriodDuration,
		WithdrawPeriodNumber:   s.WithdrawPeriodNumber,
		MinBuyValue:            minBuy,
		MaxTokenPerAddress:     maxToken,
		ExchangeRate:           rate,
		ReferralPercentage:     s.ReferralPercentage,
	}
	if err := engine.Initialize(owner, saleCfg, currencies); err != nil {
		return fmt.Errorf("bootstrap sale: %w", err)
	}
	logger.Info("sale bootstrapped from config",
		slog.Int64("saleStart", s.SaleStart),
		slog.Int64("saleEnd", s.SaleEnd),
		slog.Int64("withdrawStart", s.WithdrawStart),
	)
	return nil
}
