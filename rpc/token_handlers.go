package rpc

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type tokenTransferParams struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleTokenTransfer(w http.ResponseWriter, r *http.Request) {
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
	err = s.token.Transfer(from, to, amount)
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

type tokenApproveParams struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

func (s *Server) handleTokenApprove(w http.ResponseWriter, r *http.Request) {
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
	err = s.token.Approve(owner, spender, amount)
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

type bridgeLaunchParams struct {
	Caller    string `json:"caller"`
	NewBridge string `json:"newBridge"`
}

func (s *Server) handleBridgeLaunch(w http.ResponseWriter, r *http.Request) {
	var params bridgeLaunchParams
	if !decodeBody(w, r, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}
	newBridge, err := parseAddress(params.NewBridge)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	err = s.token.LaunchBridgeUpdate(caller, newBridge)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.handleBridgeInfo(w, r)
}

type bridgeExecuteParams struct {
	Caller string `json:"caller"`
}

func (s *Server) handleBridgeExecute(w http.ResponseWriter, r *http.Request) {
	var params bridgeExecuteParams
	if !decodeBody(w, r, &params) {
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	err = s.token.ExecuteBridgeUpdate(caller)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.handleBridgeInfo(w, r)
}

func (s *Server) handleBridgeInfo(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]interface{}{
		"bridge": s.token.Bridge().String(),
	}
	if update := s.token.BridgeUpdateRecord(); update != nil {
		payload["update"] = map[string]interface{}{
			"newBridge":  update.NewBridge.String(),
			"launchedAt": update.LaunchedAt,
			"executed":   update.Executed,
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "addr"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"address": addr.String(),
		"balance": s.token.BalanceOf(addr).String(),
	})
}
