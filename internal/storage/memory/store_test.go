package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
)

func TestWithAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the default account on first access", func(t *testing.T) {
		store := NewAccountStore(decimal.RequireFromString("10000"))

		account, err := store.ReadAccount(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, "acct-1", account.AccountID)
		assert.True(t, account.CashBalance.Equal(decimal.RequireFromString("10000")))
		assert.Empty(t, account.Positions)
	})

	t.Run("commits account and transaction together", func(t *testing.T) {
		store := NewAccountStore(decimal.RequireFromString("10000"))

		_, err := store.WithAccount(ctx, "acct-1", func(account *models.Account) (*models.Transaction, error) {
			account.CashBalance = account.CashBalance.Sub(decimal.NewFromInt(100))
			return &models.Transaction{ID: "tx-1", AccountID: "acct-1", Type: models.TransactionTypeBuy}, nil
		})
		require.NoError(t, err)

		account, err := store.ReadAccount(ctx, "acct-1")
		require.NoError(t, err)
		assert.True(t, account.CashBalance.Equal(decimal.RequireFromString("9900")))

		txs, err := store.ListTransactions(ctx, "acct-1")
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "tx-1", txs[0].ID)
	})

	t.Run("an error from fn persists nothing", func(t *testing.T) {
		store := NewAccountStore(decimal.RequireFromString("10000"))
		boom := errors.New("boom")

		_, err := store.WithAccount(ctx, "acct-1", func(account *models.Account) (*models.Transaction, error) {
			account.CashBalance = decimal.Zero
			account.AddShares("AAPL", decimal.NewFromInt(5))
			return &models.Transaction{ID: "tx-1"}, boom
		})
		require.ErrorIs(t, err, boom)

		account, err := store.ReadAccount(ctx, "acct-1")
		require.NoError(t, err)
		assert.True(t, account.CashBalance.Equal(decimal.RequireFromString("10000")))
		assert.Empty(t, account.Positions)

		txs, err := store.ListTransactions(ctx, "acct-1")
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("snapshots are isolated from later mutation", func(t *testing.T) {
		store := NewAccountStore(decimal.RequireFromString("10000"))

		snapshot, err := store.WithAccount(ctx, "acct-1", func(account *models.Account) (*models.Transaction, error) {
			account.AddShares("AAPL", decimal.NewFromInt(1))
			return nil, nil
		})
		require.NoError(t, err)

		// Mutating the returned snapshot must not leak into the store.
		snapshot.Positions["AAPL"] = models.Position{Symbol: "AAPL", Shares: decimal.NewFromInt(99)}

		account, err := store.ReadAccount(ctx, "acct-1")
		require.NoError(t, err)
		assert.True(t, account.Positions["AAPL"].Shares.Equal(decimal.NewFromInt(1)))
	})

	t.Run("transactions list most-recent-first", func(t *testing.T) {
		store := NewAccountStore(decimal.RequireFromString("10000"))

		for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
			_, err := store.WithAccount(ctx, "acct-1", func(account *models.Account) (*models.Transaction, error) {
				return &models.Transaction{ID: id}, nil
			})
			require.NoError(t, err)
		}

		txs, err := store.ListTransactions(ctx, "acct-1")
		require.NoError(t, err)
		require.Len(t, txs, 3)
		assert.Equal(t, "tx-3", txs[0].ID)
		assert.Equal(t, "tx-2", txs[1].ID)
		assert.Equal(t, "tx-1", txs[2].ID)
	})

	t.Run("mutations on one account are serialized", func(t *testing.T) {
		store := NewAccountStore(decimal.Zero)

		const workers = 64
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.WithAccount(ctx, "acct-1", func(account *models.Account) (*models.Transaction, error) {
					account.CashBalance = account.CashBalance.Add(decimal.NewFromInt(1))
					return nil, nil
				})
				require.NoError(t, err)
			}()
		}
		wg.Wait()

		account, err := store.ReadAccount(ctx, "acct-1")
		require.NoError(t, err)
		assert.True(t, account.CashBalance.Equal(decimal.NewFromInt(workers)),
			"lost updates: balance is %s", account.CashBalance)
	})

	t.Run("canceled context fails fast", func(t *testing.T) {
		store := NewAccountStore(decimal.Zero)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.WithAccount(canceled, "acct-1", func(account *models.Account) (*models.Transaction, error) {
			return nil, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
