package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time price observation for a symbol, produced fresh
// per request by the price oracle. Quotes are transient and never
// persisted; one order executes against exactly one quote.
type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	AsOf   time.Time       `json:"as_of"`
}
