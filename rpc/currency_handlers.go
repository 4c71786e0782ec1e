package rpc

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"launchpad/crypto"
	"launchpad/native/sale"
	"launchpad/native/token"
)

// CurrencyLookup resolves a payment currency address to its in-process ledger.
type CurrencyLookup func(crypto.Address) (*token.Token, bool)

func (s *Server) currencyLedger(w http.ResponseWriter, r *http.Request) (*token.Token, bool) {
	addr, err := parseAddress(chi.URLParam(r, "currency"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if s.currencies == nil {
		s.writeError(w, sale.ErrUnauthorizedCurrency)
		return nil, false
	}
	ledger, ok := s.currencies(addr)
	if !ok {
		s.writeError(w, sale.ErrUnauthorizedCurrency)
		return nil, false
	}
	return ledger, true
}

func (s *Server) handleCurrencyTransfer(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.currencyLedger(w, r)
	if !ok {
		return
	}
	var params tokenTransferParams
	if !decodeBody(w, r, &params) {
		return
	}
	from, err := parseAddress(params.From)
	if err != nil {
		s.writeError(w, err)
		return
	}
	to, err := parseAddress(params.To)
	if err != nil {
		s.writeError(w, err)
		return
	}
	amount, err := parseAmountParam(params.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	err = ledger.Transfer(from, to, amount)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"from":   from.String(),
		"to":     to.String(),
		"amount": amount.String(),
	})
}

func (s *Server) handleCurrencyApprove(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.currencyLedger(w, r)
	if !ok {
		return
	}
	var params tokenApproveParams
	if !decodeBody(w, r, &params) {
		return
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		s.writeError(w, err)
		return
	}
	spender, err := parseAddress(params.Spender)
	if err != nil {
		s.writeError(w, err)
		return
	}
	amount, err := parseAmountParam(params.Amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	err = ledger.Approve(owner, spender, amount)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"owner":     owner.String(),
		"spender":   spender.String(),
		"allowance": amount.String(),
	})
}

func (s *Server) handleCurrencyBalance(w http.ResponseWriter, r *http.Request) {
	ledger, ok := s.currencyLedger(w, r)
	if !ok {
		return
	}
	addr, err := parseAddress(chi.URLParam(r, "addr"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"address": addr.String(),
		"balance": ledger.BalanceOf(addr).String(),
	})
}
