package models

import (
	"github.com/shopspring/decimal"
)

// PositionView is one valued position inside a portfolio snapshot. When
// the oracle cannot price the symbol, PriceUnavailable is set and
// CurrentPrice/Value are zero; a zero price is never reported as a real
// valuation.
type PositionView struct {
	Symbol           string          `json:"symbol"`
	Shares           decimal.Decimal `json:"shares"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	Value            decimal.Decimal `json:"position_value"`
	PriceUnavailable bool            `json:"price_unavailable,omitempty"`
}

// PortfolioView is a point-in-time valuation of an account: cash plus
// each held position marked to the oracle's current price. StocksValue
// sums only the positions that could be priced.
type PortfolioView struct {
	AccountID   string          `json:"account_id"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	Positions   []PositionView  `json:"portfolio"`
	StocksValue decimal.Decimal `json:"stocks_value"`
	TotalValue  decimal.Decimal `json:"total_value"`
}
