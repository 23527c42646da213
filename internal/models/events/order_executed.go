package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderExecuted is published after a buy or sell commits. Publishing is
// best-effort and happens outside the account's critical section; a
// publish failure never fails the trade.
type OrderExecuted struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	Shares        decimal.Decimal `json:"shares"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
