package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	interfaces "github.com/sheikh-saqib/paper-trading-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models/events"
)

// TopicOrderExecuted is the event topic for committed trades.
const TopicOrderExecuted = "order_executed"

// Ledger validates and applies buy/sell orders against accounts. It owns
// no locking itself: the store's WithAccount serializes all mutations per
// account, and the price quote is always fetched before that exclusive
// section is entered, so the account lock is never held across a network
// call. One order executes against exactly one quote.
type Ledger struct {
	store     interfaces.AccountStore
	oracle    interfaces.PriceOracle
	publisher interfaces.EventPublisher // optional, best-effort
}

// NewLedger wires the ledger to its storage and price source. publisher
// may be nil, in which case no events are emitted.
func NewLedger(store interfaces.AccountStore, oracle interfaces.PriceOracle, publisher interfaces.EventPublisher) *Ledger {
	return &Ledger{
		store:     store,
		oracle:    oracle,
		publisher: publisher,
	}
}

// normalizeOrder validates order parameters before any external call.
// Zero or negative share counts are rejected, never treated as a no-op.
func normalizeOrder(symbol string, shares decimal.Decimal) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || shares.Sign() <= 0 {
		return "", models.ErrInvalidOrder
	}
	return symbol, nil
}

// tradeTotal applies the money rounding rule: totals are rounded half
// away from zero to the cent, identically for buy cost and sell proceeds.
func tradeTotal(shares, price decimal.Decimal) decimal.Decimal {
	return shares.Mul(price).Round(2)
}

// Buy purchases shares of symbol at the oracle's current price, debiting
// cash and crediting the position atomically with the appended
// transaction. Fails with models.ErrInsufficientFunds — leaving the
// account untouched — when the cost exceeds the cash balance.
func (l *Ledger) Buy(ctx context.Context, accountID, symbol string, shares decimal.Decimal) (models.Account, error) {
	symbol, err := normalizeOrder(symbol, shares)
	if err != nil {
		return models.Account{}, err
	}

	quote, err := l.oracle.GetPrice(ctx, symbol)
	if err != nil {
		return models.Account{}, err
	}

	var tx models.Transaction
	account, err := l.store.WithAccount(ctx, accountID, func(account *models.Account) (*models.Transaction, error) {
		cost := tradeTotal(shares, quote.Price)
		if cost.GreaterThan(account.CashBalance) {
			return nil, models.ErrInsufficientFunds
		}

		account.CashBalance = account.CashBalance.Sub(cost)
		account.AddShares(symbol, shares)

		tx = models.Transaction{
			ID:        uuid.New().String(),
			AccountID: accountID,
			Symbol:    symbol,
			Shares:    shares,
			Price:     quote.Price,
			Type:      models.TransactionTypeBuy,
			Total:     cost,
			CreatedAt: time.Now().UTC(),
		}
		return &tx, nil
	})
	if err != nil {
		return models.Account{}, err
	}

	log.WithFields(log.Fields{
		"account": accountID,
		"symbol":  symbol,
		"shares":  shares,
		"price":   quote.Price,
		"total":   tx.Total,
	}).Info("buy order executed")

	l.publishOrderExecuted(tx)
	return account, nil
}

// Sell liquidates shares of symbol at the oracle's current price. Selling
// more than the held position (or a symbol not held at all) fails with
// models.ErrInsufficientShares and no mutation; selling the entire
// position removes the symbol from the account.
func (l *Ledger) Sell(ctx context.Context, accountID, symbol string, shares decimal.Decimal) (models.Account, error) {
	symbol, err := normalizeOrder(symbol, shares)
	if err != nil {
		return models.Account{}, err
	}

	quote, err := l.oracle.GetPrice(ctx, symbol)
	if err != nil {
		return models.Account{}, err
	}

	var tx models.Transaction
	account, err := l.store.WithAccount(ctx, accountID, func(account *models.Account) (*models.Transaction, error) {
		pos, held := account.Positions[symbol]
		if !held || shares.GreaterThan(pos.Shares) {
			return nil, models.ErrInsufficientShares
		}

		proceeds := tradeTotal(shares, quote.Price)
		account.CashBalance = account.CashBalance.Add(proceeds)
		account.RemoveShares(symbol, shares)

		tx = models.Transaction{
			ID:        uuid.New().String(),
			AccountID: accountID,
			Symbol:    symbol,
			Shares:    shares,
			Price:     quote.Price,
			Type:      models.TransactionTypeSell,
			Total:     proceeds,
			CreatedAt: time.Now().UTC(),
		}
		return &tx, nil
	})
	if err != nil {
		return models.Account{}, err
	}

	log.WithFields(log.Fields{
		"account": accountID,
		"symbol":  symbol,
		"shares":  shares,
		"price":   quote.Price,
		"total":   tx.Total,
	}).Info("sell order executed")

	l.publishOrderExecuted(tx)
	return account, nil
}

// Transactions returns the account's ledger, most-recent-first.
func (l *Ledger) Transactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	return l.store.ListTransactions(ctx, accountID)
}

// publishOrderExecuted emits the event after commit. The trade already
// happened, so a publish failure is logged and swallowed.
func (l *Ledger) publishOrderExecuted(tx models.Transaction) {
	if l.publisher == nil {
		return
	}

	event := events.OrderExecuted{
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		Symbol:        tx.Symbol,
		Side:          string(tx.Type),
		Shares:        tx.Shares,
		Price:         tx.Price,
		Total:         tx.Total,
		OccurredAt:    tx.CreatedAt,
	}
	if err := l.publisher.Publish(TopicOrderExecuted, event); err != nil {
		log.WithError(err).WithField("transaction", tx.ID).Warn("failed to publish order_executed event")
	}
}
