package interfaces

import (
	"context"

	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
)

// AccountStore is durable keyed storage of one Account per account id,
// with atomic read-modify-write. Implementations must serialize mutating
// operations per account: no two WithAccount calls for the same id ever
// interleave, and readers never observe a half-applied mutation.
type AccountStore interface {
	// WithAccount obtains exclusive access to the account (creating it
	// with the default starting state if absent), invokes fn with a
	// mutable view, and commits the mutated account — together with the
	// transaction fn returns, if any — only when fn succeeds. On any
	// error nothing is persisted and the pre-call state remains. The
	// committed snapshot is returned.
	WithAccount(ctx context.Context, accountID string, fn func(account *models.Account) (*models.Transaction, error)) (models.Account, error)

	// ReadAccount returns a snapshot of the account for valuation-only
	// reads, lazily creating the default account under the same
	// exclusivity guarantee as WithAccount.
	ReadAccount(ctx context.Context, accountID string) (models.Account, error)

	// ListTransactions returns the account's transactions ordered
	// most-recent-first. The underlying order is commit order, which is
	// the serialization order for the account.
	ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)
}
