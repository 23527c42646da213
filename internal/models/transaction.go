package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags a ledger record as a trade or a cash adjustment.
type TransactionType string

const (
	TransactionTypeBuy     TransactionType = "buy"
	TransactionTypeSell    TransactionType = "sell"
	TransactionTypeDeposit TransactionType = "deposit"
)

// Transaction is an immutable record of one executed order or deposit.
// Transactions are append-only: once committed they are never mutated or
// deleted, and their order in the store is the commit order for the
// account.
type Transaction struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Symbol    string          `json:"symbol,omitempty"`
	Shares    decimal.Decimal `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Type      TransactionType `json:"type"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}
