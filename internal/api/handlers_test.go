package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/funding"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/storage/memory"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/valuation"
)

type stubOracle struct {
	prices map[string]decimal.Decimal
}

func (o *stubOracle) GetPrice(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	price, ok := o.prices[symbol]
	if !ok {
		return models.Quote{}, models.ErrUnknownSymbol
	}
	return models.Quote{Symbol: symbol, Price: price, AsOf: time.Now().UTC()}, nil
}

func newTestRouter() http.Handler {
	store := memory.NewAccountStore(decimal.RequireFromString("10000"))
	oracle := &stubOracle{prices: map[string]decimal.Decimal{
		"AAPL": decimal.RequireFromString("150.00"),
	}}
	handlers := NewHandlers(
		ledger.NewLedger(store, oracle, nil),
		funding.NewService(store),
		valuation.NewService(store, oracle),
		oracle,
	)
	return handlers.Router()
}

func doRequest(t *testing.T, router http.Handler, method, path, account, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if account != "" {
		req.Header.Set(accountHeader, account)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlers(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		router := newTestRouter()
		rec := doRequest(t, router, http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("requests without an account identity are rejected", func(t *testing.T) {
		router := newTestRouter()
		rec := doRequest(t, router, http.MethodPost, "/api/trading/buy", "", `{"symbol":"AAPL","shares":1}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("buy returns the updated account snapshot", func(t *testing.T) {
		router := newTestRouter()
		rec := doRequest(t, router, http.MethodPost, "/api/trading/buy", "acct-1", `{"symbol":"AAPL","shares":10}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var account models.Account
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
		assert.True(t, account.CashBalance.Equal(decimal.RequireFromString("8500.00")))
		assert.Contains(t, account.Positions, "AAPL")
	})

	t.Run("insufficient funds maps to 400 with a reason", func(t *testing.T) {
		router := newTestRouter()
		rec := doRequest(t, router, http.MethodPost, "/api/trading/buy", "acct-1", `{"symbol":"AAPL","shares":1000}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient funds")
	})

	t.Run("unknown symbol maps to 400", func(t *testing.T) {
		router := newTestRouter()
		rec := doRequest(t, router, http.MethodPost, "/api/trading/buy", "acct-1", `{"symbol":"NOPE","shares":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("add-funds then balance reflects the deposit", func(t *testing.T) {
		router := newTestRouter()
		rec := doRequest(t, router, http.MethodPost, "/api/trading/add-funds", "acct-1", `{"amount":500}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, router, http.MethodGet, "/api/trading/balance", "acct-1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var view models.PortfolioView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.True(t, view.CashBalance.Equal(decimal.RequireFromString("10500")))
	})

	t.Run("invalid deposit amount maps to 400", func(t *testing.T) {
		router := newTestRouter()
		rec := doRequest(t, router, http.MethodPost, "/api/trading/add-funds", "acct-1", `{"amount":-5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("transactions list most-recent-first", func(t *testing.T) {
		router := newTestRouter()
		require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, "/api/trading/buy", "acct-1", `{"symbol":"AAPL","shares":5}`).Code)
		require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, "/api/trading/sell", "acct-1", `{"symbol":"AAPL","shares":5}`).Code)

		rec := doRequest(t, router, http.MethodGet, "/api/trading/transactions", "acct-1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var txs []models.Transaction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
		require.Len(t, txs, 2)
		assert.Equal(t, models.TransactionTypeSell, txs[0].Type)
		assert.Equal(t, models.TransactionTypeBuy, txs[1].Type)
	})

	t.Run("stock quote passthrough", func(t *testing.T) {
		router := newTestRouter()
		rec := doRequest(t, router, http.MethodGet, "/api/stock/AAPL", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var quote models.Quote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
		assert.Equal(t, "AAPL", quote.Symbol)
	})
}
