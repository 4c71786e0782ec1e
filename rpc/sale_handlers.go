package rpc

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"

	"launchpad/crypto"
	"launchpad/native/sale"
)

func parseAddress(s string) (crypto.Address, error) {
	if s == "" {
		return crypto.Address{}, fmt.Errorf("%w: empty", crypto.ErrInvalidAddress)
	}
	return crypto.DecodeAddress(s)
}

// parseOptionalAddress treats the empty string as the zero sentinel.
func parseOptionalAddress(s string) (crypto.Address, error) {
	if s == "" {
		return crypto.ZeroAddress, nil
	}
	return crypto.DecodeAddress(s)
}

func parseAmountParam(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid amount %q", sale.ErrInvalidAmount, s)
	}
	return amount, nil
}

type buyParams struct {
	Buyer    string `json:"buyer"`
	Currency string `json:"currency"`
	Value    string `json:"value"`
	Referral string `json:"referral,omitempty"`
}

type buyResult struct {
	Buyer          string `json:"buyer"`
	Currency       string `json:"currency"`
	Value          string `json:"value"`
	Referral       string `json:"referral"`
	TokenAmount    string `json:"tokenAmount"`
	ReferralAmount string `json:"referralAmount"`
	Claimable      string `json:"claimable"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var params buyParams
	if !decodeBody(w, r, &params) {
		return
	}
	buyer, err := parseAddress(params.Buyer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	currency, err := parseAddress(params.Currency)
	if err != nil {
		s.writeError(w, err)
		return
	}
	value, err := parseAmountParam(params.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	referral, err := parseOptionalAddress(params.Referral)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	result, err := s.engine.BuyToken(buyer, currency, value, referral)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buyResult{
		Buyer:          result.Buyer.String(),
		Currency:       result.Currency.String(),
		Value:          result.Value.String(),
		Referral:       result.Referral.String(),
		TokenAmount:    result.TokenAmount.String(),
		ReferralAmount: result.ReferralAmount.String(),
		Claimable:      result.Claimable.String(),
	})
}

type withdrawParams struct {
	Account string `json:"account"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var params withdrawParams
	if !decodeBody(w, r, &params) {
		return
	}
	account, err := parseAddress(params.Account)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	payout, err := s.engine.WithdrawToken(account)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"account": account.String(),
		"amount":  payout.String(),
	})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	burned, err := s.engine.FinalizeSale()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"burnedAmount": burned.String()})
}

type authorizeCurrenciesParams struct {
	Caller     string   `json:"caller"`
	Currencies []string `json:"currencies"`
}

func (s *Server) handleAuthorizeCurrencies(w http.ResponseWriter, r *http.Request) {
	var params authorizeCurrenciesParams
	if !decodeBody(w, r, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}
	addrs := make([]crypto.Address, 0, len(params.Currencies))
	for _, raw := range params.Currencies {
		addr, err := parseAddress(raw)
		if err != nil {
			s.writeError(w, err)
			return
		}
		addrs = append(addrs, addr)
	}
	s.mu.Lock()
	err = s.engine.AuthorizePaymentCurrencies(caller, addrs)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	list := s.engine.AuthorizedCurrencies()
	out := make([]string, 0, len(list))
	for _, addr := range list {
		out = append(out, addr.String())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"authorizedCurrencies": out})
}

// configUpdateParams carries one setter per optional field; only the fields
// present in the request are applied, in declaration order.
type configUpdateParams struct {
	Caller                 string  `json:"caller"`
	Wallet                 *string `json:"wallet,omitempty"`
	SaleStart              *int64  `json:"saleStart,omitempty"`
	SaleEnd                *int64  `json:"saleEnd,omitempty"`
	WithdrawStart          *int64  `json:"withdrawStart,omitempty"`
	WithdrawPeriodDuration *int64  `json:"withdrawPeriodDuration,omitempty"`
	WithdrawPeriodNumber   *uint64 `json:"withdrawPeriodNumber,omitempty"`
	MinBuyValue            *string `json:"minBuyValue,omitempty"`
	MaxTokenPerAddress     *string `json:"maxTokenPerAddress,omitempty"`
	ExchangeRate           *string `json:"exchangeRate,omitempty"`
	ReferralPercentage     *uint64 `json:"referralPercentage,omitempty"`
}

func (s *Server) handleConfigUpdate(w http.ResponseWriter, r *http.Request) {
	var params configUpdateParams
	if !decodeBody(w, r, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.applyConfigUpdates(caller, &params)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.handleSaleInfo(w, r)
}

func (s *Server) applyConfigUpdates(caller crypto.Address, params *configUpdateParams) error {
	if params.Wallet != nil {
		wallet, err := parseAddress(*params.Wallet)
		if err != nil {
			return err
		}
		if err := s.engine.SetWallet(caller, wallet); err != nil {
			return err
		}
	}
	if params.SaleStart != nil {
		if err := s.engine.SetSaleStart(caller, *params.SaleStart); err != nil {
			return err
		}
	}
	if params.SaleEnd != nil {
		if err := s.engine.SetSaleEnd(caller, *params.SaleEnd); err != nil {
			return err
		}
	}
	if params.WithdrawStart != nil {
		if err := s.engine.SetWithdrawStart(caller, *params.WithdrawStart); err != nil {
			return err
		}
	}
	if params.WithdrawPeriodDuration != nil {
		if err := s.engine.SetWithdrawPeriodDuration(caller, *params.WithdrawPeriodDuration); err != nil {
			return err
		}
	}
	if params.WithdrawPeriodNumber != nil {
		if err := s.engine.SetWithdrawPeriodNumber(caller, *params.WithdrawPeriodNumber); err != nil {
			return err
		}
	}
	if params.MinBuyValue != nil {
		value, err := parseAmountParam(*params.MinBuyValue)
		if err != nil {
			return err
		}
		if err := s.engine.SetMinBuyValue(caller, value); err != nil {
			return err
		}
	}
	if params.MaxTokenPerAddress != nil {
		value, err := parseAmountParam(*params.MaxTokenPerAddress)
		if err != nil {
			return err
		}
		if err := s.engine.SetMaxTokenPerAddress(caller, value); err != nil {
			return err
		}
	}
	if params.ExchangeRate != nil {
		rate, err := parseAmountParam(*params.ExchangeRate)
		if err != nil {
			return err
		}
		if err := s.engine.SetExchangeRate(caller, rate); err != nil {
			return err
		}
	}
	if params.ReferralPercentage != nil {
		if err := s.engine.SetReferralPercentage(caller, *params.ReferralPercentage); err != nil {
			return err
		}
	}
	return nil
}

type transferOwnershipParams struct {
	Caller   string `json:"caller"`
	NewOwner string `json:"newOwner"`
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	var params transferOwnershipParams
	if !decodeBody(w, r, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}
	newOwner, err := parseAddress(params.NewOwner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	err = s.engine.TransferOwnership(caller, newOwner)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"owner": newOwner.String()})
}

type saleInfoResult struct {
	Owner                  string   `json:"owner"`
	Wallet                 string   `json:"wallet"`
	SaleStart              int64    `json:"saleStart"`
	SaleEnd                int64    `json:"saleEnd"`
	WithdrawStart          int64    `json:"withdrawStart"`
	WithdrawPeriodDuration int64    `json:"withdrawPeriodDuration"`
	WithdrawPeriodNumber   uint64   `json:"withdrawPeriodNumber"`
	MinBuyValue            string   `json:"minBuyValue"`
	MaxTokenPerAddress     string   `json:"maxTokenPerAddress"`
	ExchangeRate           string   `json:"exchangeRate"`
	ReferralPercentage     uint64   `json:"referralPercentage"`
	AuthorizedCurrencies   []string `json:"authorizedCurrencies"`
	SoldAmount             string   `json:"soldAmount"`
	Finalized              bool     `json:"finalized"`
}

func (s *Server) handleSaleInfo(w http.ResponseWriter, _ *http.Request) {
	cfg, err := s.engine.Config()
	if err != nil {
		s.writeError(w, err)
		return
	}
	totals, err := s.engine.SaleTotals()
	if err != nil {
		s.writeError(w, err)
		return
	}
	currencies := s.engine.AuthorizedCurrencies()
	list := make([]string, 0, len(currencies))
	for _, addr := range currencies {
		list = append(list, addr.String())
	}
	writeJSON(w, http.StatusOK, saleInfoResult{
		Owner:                  s.engine.Owner().String(),
		Wallet:                 cfg.Wallet.String(),
		SaleStart:              cfg.SaleStart,
		SaleEnd:                cfg.SaleEnd,
		WithdrawStart:          cfg.WithdrawStart,
		WithdrawPeriodDuration: cfg.WithdrawPeriodDuration,
		WithdrawPeriodNumber:   cfg.WithdrawPeriodNumber,
		MinBuyValue:            cfg.MinBuyValue.String(),
		MaxTokenPerAddress:     cfg.MaxTokenPerAddress.String(),
		ExchangeRate:           cfg.ExchangeRate.String(),
		ReferralPercentage:     cfg.ReferralPercentage,
		AuthorizedCurrencies:   list,
		SoldAmount:             totals.Sold.String(),
		Finalized:              totals.Finalized,
	})
}

func (s *Server) handleSoldAmount(w http.ResponseWriter, _ *http.Request) {
	sold, err := s.engine.SoldAmount()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"soldAmount": sold.String()})
}

func (s *Server) handleClaimable(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "addr"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	entry, err := s.engine.PurchaseOf(addr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"address":   addr.String(),
		"value":     entry.Value.String(),
		"claimable": entry.Claimable.String(),
		"withdrawn": entry.Withdrawn.String(),
	})
}

func (s *Server) handleCurrencyCheck(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "addr"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"currency":   addr.String(),
		"authorized": s.engine.IsAuthorizedCurrency(addr),
	})
}
