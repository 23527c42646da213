package valuation

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	interfaces "github.com/sheikh-saqib/paper-trading-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
)

// Service computes portfolio valuations by marking stored positions to
// the oracle's current prices. Reads are snapshot-consistent: the account
// is read once through the store, then priced, so a concurrent trade is
// observed either fully before or fully after, never half-applied.
type Service struct {
	store  interfaces.AccountStore
	oracle interfaces.PriceOracle
}

func NewService(store interfaces.AccountStore, oracle interfaces.PriceOracle) *Service {
	return &Service{
		store:  store,
		oracle: oracle,
	}
}

// GetSnapshot values every position in the account. A quote failure for
// one symbol marks that position unavailable instead of failing the whole
// snapshot; an unavailable position contributes nothing to StocksValue
// and is never reported at a fabricated price.
func (s *Service) GetSnapshot(ctx context.Context, accountID string) (models.PortfolioView, error) {
	account, err := s.store.ReadAccount(ctx, accountID)
	if err != nil {
		return models.PortfolioView{}, err
	}

	view := models.PortfolioView{
		AccountID:   account.AccountID,
		CashBalance: account.CashBalance,
		Positions:   make([]models.PositionView, 0, len(account.Positions)),
		StocksValue: decimal.Zero,
	}

	for _, pos := range account.Positions {
		pv := models.PositionView{
			Symbol: pos.Symbol,
			Shares: pos.Shares,
		}

		quote, err := s.oracle.GetPrice(ctx, pos.Symbol)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"account": accountID,
				"symbol":  pos.Symbol,
			}).Warn("valuation: price unavailable")
			pv.PriceUnavailable = true
		} else {
			pv.CurrentPrice = quote.Price
			pv.Value = pos.Shares.Mul(quote.Price).Round(2)
			view.StocksValue = view.StocksValue.Add(pv.Value)
		}

		view.Positions = append(view.Positions, pv)
	}

	// Map iteration order is random; keep the response stable.
	sort.Slice(view.Positions, func(i, j int) bool {
		return view.Positions[i].Symbol < view.Positions[j].Symbol
	})

	view.TotalValue = view.CashBalance.Add(view.StocksValue)
	return view, nil
}
