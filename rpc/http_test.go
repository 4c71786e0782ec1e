package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"launchpad/crypto"
	"launchpad/native/sale"
	"launchpad/native/token"
	"launchpad/storage"
)

const (
	rpcSaleStart     = int64(1_000_000)
	rpcSaleEnd       = rpcSaleStart + 30*86400
	rpcWithdrawStart = rpcSaleEnd + 60*86400
)

type rpcFixture struct {
	server *httptest.Server
	engine *sale.Engine
	sold   *token.Token
	usdc   *token.Token
	now    *int64

	owner    crypto.Address
	wallet   crypto.Address
	vault    crypto.Address
	buyer    crypto.Address
	usdcAddr crypto.Address
}

func testAddr(last byte) crypto.Address {
	var out crypto.Address
	out[crypto.AddressLength-1] = last
	return out
}

func newRPCFixture(t *testing.T) *rpcFixture {
	t.Helper()

	f := &rpcFixture{
		owner:    testAddr(0x01),
		wallet:   testAddr(0x02),
		vault:    crypto.ModuleAddress("sale/vault"),
		buyer:    testAddr(0x10),
		usdcAddr: testAddr(0xC1),
	}
	now := rpcSaleStart + 86400
	f.now = &now

	f.sold = token.New("Test Token", "TST", big.NewInt(1_000_000), f.owner)
	f.usdc = token.New("USD Coin", "USDC", big.NewInt(1_000_000), f.buyer)

	engine := sale.NewEngine()
	engine.SetState(sale.NewStore(storage.NewMemDB()))
	engine.SetNowFunc(func() int64 { return *f.now })
	engine.SetOwner(f.owner)
	engine.SetVault(f.vault)
	engine.SetToken(f.sold)
	engine.SetLedgerResolver(func(a crypto.Address) (sale.Ledger, bool) {
		if a == f.usdcAddr {
			return f.usdc, true
		}
		return nil, false
	})
	f.engine = engine

	cfg := &sale.SaleConfig{
		Wallet:                 f.wallet,
		SaleStart:              rpcSaleStart,
		SaleEnd:                rpcSaleEnd,
		WithdrawStart:          rpcWithdrawStart,
		WithdrawPeriodDuration: 4 * 7 * 86400,
		WithdrawPeriodNumber:   10,
		MinBuyValue:            big.NewInt(300),
		ExchangeRate:           big.NewInt(50),
		ReferralPercentage:     2,
	}
	require.NoError(t, engine.Initialize(f.owner, cfg, []crypto.Address{f.usdcAddr}))
	require.NoError(t, f.sold.Transfer(f.owner, f.vault, big.NewInt(1_000_000)))
	require.NoError(t, f.usdc.Approve(f.buyer, f.vault, big.NewInt(1_000_000)))

	lookup := CurrencyLookup(func(a crypto.Address) (*token.Token, bool) {
		if a == f.usdcAddr {
			return f.usdc, true
		}
		return nil, false
	})
	server := NewServer(engine, f.sold, lookup, nil)
	f.server = httptest.NewServer(server.Router())
	t.Cleanup(f.server.Close)
	return f
}

func (f *rpcFixture) post(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func (f *rpcFixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthz(t *testing.T) {
	f := newRPCFixture(t)
	resp := f.get(t, "/healthz")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBuyEndpoint(t *testing.T) {
	f := newRPCFixture(t)

	resp := f.post(t, "/sale/buy", map[string]string{
		"buyer":    f.buyer.String(),
		"currency": f.usdcAddr.String(),
		"value":    "300",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		TokenAmount string `json:"tokenAmount"`
		Claimable   string `json:"claimable"`
	}
	decodeInto(t, resp, &result)
	require.Equal(t, "15000", result.TokenAmount)
	require.Equal(t, "15000", result.Claimable)

	require.Zero(t, f.usdc.BalanceOf(f.wallet).Cmp(big.NewInt(300)))
}

func TestBuyEndpointErrorMapping(t *testing.T) {
	f := newRPCFixture(t)

	// Phase violation maps to 409.
	*f.now = rpcSaleStart - 1
	resp := f.post(t, "/sale/buy", map[string]string{
		"buyer":    f.buyer.String(),
		"currency": f.usdcAddr.String(),
		"value":    "300",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Validation failure maps to 400.
	*f.now = rpcSaleStart + 86400
	resp = f.post(t, "/sale/buy", map[string]string{
		"buyer":    f.buyer.String(),
		"currency": f.usdcAddr.String(),
		"value":    "100",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Supply exhaustion maps to 422.
	resp = f.post(t, "/sale/buy", map[string]string{
		"buyer":    f.buyer.String(),
		"currency": f.usdcAddr.String(),
		"value":    "20001",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Malformed address maps to 400.
	resp = f.post(t, "/sale/buy", map[string]string{
		"buyer":    "garbage",
		"currency": f.usdcAddr.String(),
		"value":    "300",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown fields are rejected.
	resp = f.post(t, "/sale/buy", map[string]string{"unknown": "field"})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWithdrawEndpoint(t *testing.T) {
	f := newRPCFixture(t)

	resp := f.post(t, "/sale/buy", map[string]string{
		"buyer":    f.buyer.String(),
		"currency": f.usdcAddr.String(),
		"value":    "2500",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Before the cliff: 409.
	resp = f.post(t, "/sale/withdraw", map[string]string{"account": f.buyer.String()})
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	*f.now = rpcWithdrawStart
	resp = f.post(t, "/sale/withdraw", map[string]string{"account": f.buyer.String()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		Amount string `json:"amount"`
	}
	decodeInto(t, resp, &result)
	require.Equal(t, "12500", result.Amount)
	require.Zero(t, f.sold.BalanceOf(f.buyer).Cmp(big.NewInt(12_500)))
}

func TestFinalizeEndpoint(t *testing.T) {
	f := newRPCFixture(t)

	resp := f.post(t, "/sale/finalize", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	*f.now = rpcSaleEnd
	resp = f.post(t, "/sale/finalize", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		BurnedAmount string `json:"burnedAmount"`
	}
	decodeInto(t, resp, &result)
	require.Equal(t, "1000000", result.BurnedAmount)
}

func TestConfigEndpoint(t *testing.T) {
	f := newRPCFixture(t)
	*f.now = rpcSaleStart - 86400

	// Non-owner mutation: 403.
	rate := "60"
	resp := f.post(t, "/sale/config", map[string]interface{}{
		"caller":       f.buyer.String(),
		"exchangeRate": rate,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.post(t, "/sale/config", map[string]interface{}{
		"caller":       f.owner.String(),
		"exchangeRate": rate,
		"minBuyValue":  "500",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info struct {
		ExchangeRate string `json:"exchangeRate"`
		MinBuyValue  string `json:"minBuyValue"`
	}
	decodeInto(t, resp, &info)
	require.Equal(t, "60", info.ExchangeRate)
	require.Equal(t, "500", info.MinBuyValue)
}

func TestSaleInfoEndpoint(t *testing.T) {
	f := newRPCFixture(t)

	resp := f.get(t, "/sale/info")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info struct {
		Owner                string   `json:"owner"`
		SaleStart            int64    `json:"saleStart"`
		ExchangeRate         string   `json:"exchangeRate"`
		AuthorizedCurrencies []string `json:"authorizedCurrencies"`
		Finalized            bool     `json:"finalized"`
	}
	decodeInto(t, resp, &info)
	require.Equal(t, f.owner.String(), info.Owner)
	require.Equal(t, rpcSaleStart, info.SaleStart)
	require.Equal(t, "50", info.ExchangeRate)
	require.Equal(t, []string{f.usdcAddr.String()}, info.AuthorizedCurrencies)
	require.False(t, info.Finalized)
}

func TestClaimableEndpoint(t *testing.T) {
	f := newRPCFixture(t)

	resp := f.post(t, "/sale/buy", map[string]string{
		"buyer":    f.buyer.String(),
		"currency": f.usdcAddr.String(),
		"value":    "300",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.get(t, fmt.Sprintf("/sale/claimable/%s", f.buyer))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entry struct {
		Claimable string `json:"claimable"`
		Withdrawn string `json:"withdrawn"`
	}
	decodeInto(t, resp, &entry)
	require.Equal(t, "15000", entry.Claimable)
	require.Equal(t, "0", entry.Withdrawn)

	// Addresses that never bought read back zero-valued.
	resp = f.get(t, fmt.Sprintf("/sale/claimable/%s", testAddr(0x42)))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &entry)
	require.Equal(t, "0", entry.Claimable)
}

func TestCurrencyCheckEndpoint(t *testing.T) {
	f := newRPCFixture(t)

	resp := f.get(t, fmt.Sprintf("/sale/currency/%s", f.usdcAddr))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var check struct {
		Authorized bool `json:"authorized"`
	}
	decodeInto(t, resp, &check)
	require.True(t, check.Authorized)

	resp = f.get(t, fmt.Sprintf("/sale/currency/%s", testAddr(0xC9)))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &check)
	require.False(t, check.Authorized)
}

func TestTokenEndpoints(t *testing.T) {
	f := newRPCFixture(t)
	dest := testAddr(0x20)

	resp := f.post(t, "/token/transfer", map[string]string{
		"from":   f.owner.String(),
		"to":     dest.String(),
		"amount": "0",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.get(t, fmt.Sprintf("/token/balance/%s", f.vault))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balance struct {
		Balance string `json:"balance"`
	}
	decodeInto(t, resp, &balance)
	require.Equal(t, "1000000", balance.Balance)
}

func TestBridgeEndpoints(t *testing.T) {
	f := newRPCFixture(t)
	bridge := testAddr(0xB1)

	resp := f.post(t, "/token/bridge/launch", map[string]string{
		"caller":    f.buyer.String(),
		"newBridge": bridge.String(),
	})
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.post(t, "/token/bridge/launch", map[string]string{
		"caller":    f.owner.String(),
		"newBridge": bridge.String(),
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Grace period still running: 409.
	resp = f.post(t, "/token/bridge/execute", map[string]string{"caller": f.owner.String()})
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMetricsLabelledByRoutePattern(t *testing.T) {
	f := newRPCFixture(t)

	for _, a := range []crypto.Address{f.buyer, testAddr(0x41), testAddr(0x42)} {
		resp := f.get(t, fmt.Sprintf("/sale/claimable/%s", a))
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	require.Contains(t, body, `path="/sale/claimable/{addr}"`)
	// Concrete addresses must never appear as label values.
	require.NotContains(t, body, f.buyer.String())
	require.NotContains(t, body, testAddr(0x41).String())
}

func TestCurrencyEndpoints(t *testing.T) {
	f := newRPCFixture(t)

	resp := f.get(t, fmt.Sprintf("/currency/%s/balance/%s", f.usdcAddr, f.buyer))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balance struct {
		Balance string `json:"balance"`
	}
	decodeInto(t, resp, &balance)
	require.Equal(t, "1000000", balance.Balance)

	// Unknown currency: the lookup fails and the request is rejected.
	resp = f.get(t, fmt.Sprintf("/currency/%s/balance/%s", testAddr(0xC9), f.buyer))
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
