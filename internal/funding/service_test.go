package funding

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/storage/memory"
)

func TestDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit credits cash and records a deposit transaction", func(t *testing.T) {
		store := memory.NewAccountStore(decimal.RequireFromString("10000"))
		svc := NewService(store)

		account, err := svc.Deposit(ctx, "acct-1", decimal.RequireFromString("250.50"))
		require.NoError(t, err)
		assert.True(t, account.CashBalance.Equal(decimal.RequireFromString("10250.50")))

		txs, err := store.ListTransactions(ctx, "acct-1")
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, models.TransactionTypeDeposit, txs[0].Type)
		assert.True(t, txs[0].Total.Equal(decimal.RequireFromString("250.50")))
	})

	t.Run("non-positive amounts fail and leave the account unchanged", func(t *testing.T) {
		store := memory.NewAccountStore(decimal.RequireFromString("10000"))
		svc := NewService(store)

		_, err := svc.Deposit(ctx, "acct-1", decimal.NewFromInt(-5))
		require.ErrorIs(t, err, models.ErrInvalidAmount)

		_, err = svc.Deposit(ctx, "acct-1", decimal.Zero)
		require.ErrorIs(t, err, models.ErrInvalidAmount)

		account, err := store.ReadAccount(ctx, "acct-1")
		require.NoError(t, err)
		assert.True(t, account.CashBalance.Equal(decimal.RequireFromString("10000")))

		txs, err := store.ListTransactions(ctx, "acct-1")
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}
