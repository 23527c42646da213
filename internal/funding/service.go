package funding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	interfaces "github.com/sheikh-saqib/paper-trading-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
)

// Service applies non-trade cash adjustments under the same atomic-apply
// contract as the ledger. Deposits are recorded as transactions of type
// "deposit" so the ledger stays a complete audit trail of cash movement.
type Service struct {
	store interfaces.AccountStore
}

func NewService(store interfaces.AccountStore) *Service {
	return &Service{store: store}
}

// Deposit credits amount to the account's cash balance. Non-positive
// amounts fail with models.ErrInvalidAmount before the store is touched.
func (s *Service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (models.Account, error) {
	if amount.Sign() <= 0 {
		return models.Account{}, models.ErrInvalidAmount
	}
	amount = amount.Round(2)

	account, err := s.store.WithAccount(ctx, accountID, func(account *models.Account) (*models.Transaction, error) {
		account.CashBalance = account.CashBalance.Add(amount)

		tx := models.Transaction{
			ID:        uuid.New().String(),
			AccountID: accountID,
			Shares:    decimal.Zero,
			Price:     decimal.Zero,
			Type:      models.TransactionTypeDeposit,
			Total:     amount,
			CreatedAt: time.Now().UTC(),
		}
		return &tx, nil
	})
	if err != nil {
		return models.Account{}, err
	}

	log.WithFields(log.Fields{
		"account": accountID,
		"amount":  amount,
	}).Info("funds deposited")

	return account, nil
}
