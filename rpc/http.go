// Package rpc exposes the sale engine and token ledger over HTTP. Mutating
// endpoints are serialized with a single mutex, matching the engine's
// serialized-transaction execution model.
package rpc

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"launchpad/native/sale"
	"launchpad/native/token"
)

const maxRequestBody = 1 << 20

// Server carries the engine, the sold token ledger and request plumbing.
type Server struct {
	mu         sync.Mutex
	engine     *sale.Engine
	token      *token.Token
	currencies CurrencyLookup
	log        *slog.Logger
}

// NewServer constructs the HTTP surface over a wired engine, the sold token
// and the payment currency lookup.
func NewServer(engine *sale.Engine, tok *token.Token, currencies CurrencyLookup, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: engine, token: tok, currencies: currencies, log: logger}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/sale", func(sr chi.Router) {
		sr.Post("/buy", s.handleBuy)
		sr.Post("/withdraw", s.handleWithdraw)
		sr.Post("/finalize", s.handleFinalize)
		sr.Post("/authorize-currencies", s.handleAuthorizeCurrencies)
		sr.Post("/config", s.handleConfigUpdate)
		sr.Post("/transfer-ownership", s.handleTransferOwnership)
		sr.Get("/info", s.handleSaleInfo)
		sr.Get("/sold", s.handleSoldAmount)
		sr.Get("/claimable/{addr}", s.handleClaimable)
		sr.Get("/currency/{addr}", s.handleCurrencyCheck)
	})

	r.Route("/token", func(tr chi.Router) {
		tr.Post("/transfer", s.handleTokenTransfer)
		tr.Post("/approve", s.handleTokenApprove)
		tr.Post("/bridge/launch", s.handleBridgeLaunch)
		tr.Post("/bridge/execute", s.handleBridgeExecute)
		tr.Get("/bridge", s.handleBridgeInfo)
		tr.Get("/balance/{addr}", s.handleTokenBalance)
	})

	r.Route("/currency/{currency}", func(cr chi.Router) {
		cr.Post("/transfer", s.handleCurrencyTransfer)
		cr.Post("/approve", s.handleCurrencyApprove)
		cr.Get("/balance/{addr}", s.handleCurrencyBalance)
	})

	return r
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
