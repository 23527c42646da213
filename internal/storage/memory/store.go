package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/paper-trading-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
)

// AccountStore is an in-memory implementation of interfaces.AccountStore.
// Exclusivity is a per-account mutex held for the whole read-modify-write;
// the store-level mutex only protects the maps themselves and is never
// held while the caller's fn runs.
type AccountStore struct {
	mu              sync.Mutex // protects accounts, transactions and locks
	locks           map[string]*sync.Mutex
	accounts        map[string]models.Account
	transactions    map[string][]models.Transaction
	startingBalance decimal.Decimal
}

// NewAccountStore creates an empty store. New accounts are seeded with
// startingBalance on first access.
func NewAccountStore(startingBalance decimal.Decimal) *AccountStore {
	return &AccountStore{
		locks:           make(map[string]*sync.Mutex),
		accounts:        make(map[string]models.Account),
		transactions:    make(map[string][]models.Transaction),
		startingBalance: startingBalance,
	}
}

func (s *AccountStore) accountLock(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.locks[accountID]; !exists {
		s.locks[accountID] = &sync.Mutex{}
	}
	return s.locks[accountID]
}

// loadOrCreate returns a deep copy of the account, seeding the default
// state if absent. Callers must hold the account's lock.
func (s *AccountStore) loadOrCreate(accountID string) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accounts[accountID]
	if !exists {
		account = models.NewAccount(accountID, s.startingBalance)
		s.accounts[accountID] = account
	}
	return account.Clone()
}

// WithAccount serializes all mutations for one account id. fn mutates a
// private copy, so an error from fn leaves the stored state untouched;
// on success the copy and the returned transaction are committed as one
// unit.
func (s *AccountStore) WithAccount(ctx context.Context, accountID string, fn func(account *models.Account) (*models.Transaction, error)) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account := s.loadOrCreate(accountID)

	tx, err := fn(&account)
	if err != nil {
		return models.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[accountID] = account.Clone()
	if tx != nil {
		s.transactions[accountID] = append(s.transactions[accountID], *tx)
	}
	return account, nil
}

// ReadAccount returns a snapshot for valuation-only reads. It reuses the
// WithAccount path so lazy creation happens under the same exclusivity
// guarantee and readers never see a half-applied mutation.
func (s *AccountStore) ReadAccount(ctx context.Context, accountID string) (models.Account, error) {
	return s.WithAccount(ctx, accountID, func(account *models.Account) (*models.Transaction, error) {
		return nil, nil
	})
}

// ListTransactions returns the account's transactions most-recent-first.
func (s *AccountStore) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.transactions[accountID]
	result := make([]models.Transaction, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		result = append(result, stored[i])
	}
	return result, nil
}

// Compile-time check: ensure AccountStore implements the interface.
var _ interfaces.AccountStore = (*AccountStore)(nil)
