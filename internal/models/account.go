package models

import (
	"github.com/shopspring/decimal"
)

// Position is a held quantity of shares of one symbol.
// Stored positions always have Shares > 0; a fully-sold symbol is removed
// from the account rather than kept at zero.
type Position struct {
	Symbol string          `json:"symbol"`
	Shares decimal.Decimal `json:"shares"`
}

// Account is one user's cash balance plus equity positions, keyed by the
// identity provider's stable account id. CashBalance never goes negative.
type Account struct {
	AccountID   string              `json:"account_id"`
	CashBalance decimal.Decimal     `json:"cash_balance"`
	Positions   map[string]Position `json:"positions"`
}

// NewAccount creates a fresh account with the configured starting balance
// and no positions.
func NewAccount(accountID string, startingBalance decimal.Decimal) Account {
	return Account{
		AccountID:   accountID,
		CashBalance: startingBalance,
		Positions:   make(map[string]Position),
	}
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the store's internal state.
func (a Account) Clone() Account {
	copied := Account{
		AccountID:   a.AccountID,
		CashBalance: a.CashBalance,
		Positions:   make(map[string]Position, len(a.Positions)),
	}
	for symbol, pos := range a.Positions {
		copied.Positions[symbol] = pos
	}
	return copied
}

// AddShares increases the position for symbol, creating the entry if the
// account does not hold it yet.
func (a *Account) AddShares(symbol string, shares decimal.Decimal) {
	pos, ok := a.Positions[symbol]
	if !ok {
		pos = Position{Symbol: symbol}
	}
	pos.Shares = pos.Shares.Add(shares)
	a.Positions[symbol] = pos
}

// RemoveShares decreases the position for symbol and deletes the entry
// when nothing remains. Decimal comparison is exact, so selling all held
// shares always removes the entry. The caller must have validated that
// the account holds at least this many shares.
func (a *Account) RemoveShares(symbol string, shares decimal.Decimal) {
	pos, ok := a.Positions[symbol]
	if !ok {
		return
	}
	remaining := pos.Shares.Sub(shares)
	if remaining.Sign() <= 0 {
		delete(a.Positions, symbol)
		return
	}
	pos.Shares = remaining
	a.Positions[symbol] = pos
}
