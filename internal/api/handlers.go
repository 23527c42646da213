package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/funding"
	interfaces "github.com/sheikh-saqib/paper-trading-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/valuation"
)

// accountHeader carries the identity provider's verified account id.
// Requests without it never reach the core.
const accountHeader = "X-Account-ID"

// Handlers is the HTTP glue between the presentation layer and the core
// services. It owns no business rules beyond decoding requests and
// mapping the error taxonomy to status codes.
type Handlers struct {
	ledger    *ledger.Ledger
	funding   *funding.Service
	valuation *valuation.Service
	oracle    interfaces.PriceOracle
}

func NewHandlers(l *ledger.Ledger, f *funding.Service, v *valuation.Service, oracle interfaces.PriceOracle) *Handlers {
	return &Handlers{
		ledger:    l,
		funding:   f,
		valuation: v,
		oracle:    oracle,
	}
}

// Router builds the trading API. The route shapes mirror the service this
// core fronts: everything account-scoped lives under /api/trading.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/api/trading/buy", h.buy).Methods(http.MethodPost)
	r.HandleFunc("/api/trading/sell", h.sell).Methods(http.MethodPost)
	r.HandleFunc("/api/trading/add-funds", h.addFunds).Methods(http.MethodPost)
	r.HandleFunc("/api/trading/balance", h.balance).Methods(http.MethodGet)
	r.HandleFunc("/api/trading/transactions", h.transactions).Methods(http.MethodGet)
	r.HandleFunc("/api/stock/{symbol}", h.quote).Methods(http.MethodGet)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("request")
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// accountID extracts the verified account id; writes 401 and returns
// false when absent.
func accountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(accountHeader)
	if id == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing account identity"))
		return "", false
	}
	return id, true
}

type orderRequest struct {
	Symbol string          `json:"symbol"`
	Shares decimal.Decimal `json:"shares"`
}

type fundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handlers) buy(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	account, err := h.ledger.Buy(r.Context(), id, req.Symbol, req.Shares)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handlers) sell(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	account, err := h.ledger.Sell(r.Context(), id, req.Symbol, req.Shares)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handlers) addFunds(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	account, err := h.funding.Deposit(r.Context(), id, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handlers) balance(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	view, err := h.valuation.GetSnapshot(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) transactions(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}

	txs, err := h.ledger.Transactions(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	quote, err := h.oracle.GetPrice(r.Context(), symbol)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Every
// failure is surfaced with its reason; nothing is converted to a default
// value that could pass for success.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidOrder),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrInsufficientShares),
		errors.Is(err, models.ErrUnknownSymbol):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, models.ErrPriceUnavailable):
		writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, models.ErrAccountStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		log.WithError(err).Error("unhandled error")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}
