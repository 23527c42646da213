package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/paper-trading-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/models"
)

// AccountStore is a postgres-backed implementation of
// interfaces.AccountStore. Per-account exclusivity comes from row locking:
// every read-modify-write runs inside a transaction that takes
// SELECT ... FOR UPDATE on the account row, so concurrent operations on
// one account serialize at the database and the account row, position
// rows and appended transaction commit or roll back together.
//
// Expected schema:
//
//	CREATE TABLE accounts (
//	    account_id   TEXT PRIMARY KEY,
//	    cash_balance NUMERIC(20,2) NOT NULL CHECK (cash_balance >= 0)
//	);
//	CREATE TABLE positions (
//	    account_id TEXT NOT NULL REFERENCES accounts(account_id),
//	    symbol     TEXT NOT NULL,
//	    shares     NUMERIC(20,8) NOT NULL CHECK (shares > 0),
//	    PRIMARY KEY (account_id, symbol)
//	);
//	CREATE TABLE transactions (
//	    id         TEXT PRIMARY KEY,
//	    account_id TEXT NOT NULL REFERENCES accounts(account_id),
//	    symbol     TEXT NOT NULL DEFAULT '',
//	    shares     NUMERIC(20,8) NOT NULL,
//	    price      NUMERIC(20,2) NOT NULL,
//	    type       TEXT NOT NULL,
//	    total      NUMERIC(20,2) NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type AccountStore struct {
	db              *sql.DB
	startingBalance decimal.Decimal
}

func NewAccountStore(db *sql.DB, startingBalance decimal.Decimal) *AccountStore {
	return &AccountStore{
		db:              db,
		startingBalance: startingBalance,
	}
}

// storeErr tags infrastructure failures so callers can match them with
// errors.Is(err, models.ErrAccountStoreUnavailable). Domain errors from
// the caller's fn are never wrapped.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", models.ErrAccountStoreUnavailable, op, err)
}

// lockAccount selects the account row FOR UPDATE, inserting the default
// row first if the account does not exist yet. The insert uses ON
// CONFLICT DO NOTHING so two first-time accesses racing each other both
// end up blocked on the same row lock.
func (s *AccountStore) lockAccount(ctx context.Context, dbTx *sql.Tx, accountID string) (models.Account, error) {
	const insertQuery = `INSERT INTO accounts (account_id, cash_balance)
	VALUES ($1, $2) ON CONFLICT (account_id) DO NOTHING`

	if _, err := dbTx.ExecContext(ctx, insertQuery, accountID, s.startingBalance); err != nil {
		return models.Account{}, storeErr("create account", err)
	}

	const selectQuery = `SELECT cash_balance FROM accounts WHERE account_id = $1 FOR UPDATE`

	account := models.NewAccount(accountID, s.startingBalance)
	if err := dbTx.QueryRowContext(ctx, selectQuery, accountID).Scan(&account.CashBalance); err != nil {
		return models.Account{}, storeErr("lock account", err)
	}

	const positionsQuery = `SELECT symbol, shares FROM positions WHERE account_id = $1`

	rows, err := dbTx.QueryContext(ctx, positionsQuery, accountID)
	if err != nil {
		return models.Account{}, storeErr("load positions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos models.Position
		if err := rows.Scan(&pos.Symbol, &pos.Shares); err != nil {
			return models.Account{}, storeErr("scan position", err)
		}
		account.Positions[pos.Symbol] = pos
	}
	if err := rows.Err(); err != nil {
		return models.Account{}, storeErr("load positions", err)
	}
	return account, nil
}

func (s *AccountStore) saveAccount(ctx context.Context, dbTx *sql.Tx, account models.Account) error {
	const updateQuery = `UPDATE accounts SET cash_balance = $2 WHERE account_id = $1`

	if _, err := dbTx.ExecContext(ctx, updateQuery, account.AccountID, account.CashBalance); err != nil {
		return storeErr("update balance", err)
	}

	// Positions are few per account; rewriting them wholesale keeps the
	// store oblivious to which entries fn touched.
	const deleteQuery = `DELETE FROM positions WHERE account_id = $1`

	if _, err := dbTx.ExecContext(ctx, deleteQuery, account.AccountID); err != nil {
		return storeErr("clear positions", err)
	}

	const insertQuery = `INSERT INTO positions (account_id, symbol, shares) VALUES ($1, $2, $3)`

	for _, pos := range account.Positions {
		if _, err := dbTx.ExecContext(ctx, insertQuery, account.AccountID, pos.Symbol, pos.Shares); err != nil {
			return storeErr("insert position", err)
		}
	}
	return nil
}

func (s *AccountStore) appendTransaction(ctx context.Context, dbTx *sql.Tx, tx models.Transaction) error {
	const query = `INSERT INTO transactions (id, account_id, symbol, shares, price, type, total, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := dbTx.ExecContext(ctx, query, tx.ID, tx.AccountID, tx.Symbol, tx.Shares, tx.Price, tx.Type, tx.Total, tx.CreatedAt)
	if err != nil {
		return storeErr("append transaction", err)
	}
	return nil
}

// WithAccount runs fn against the row-locked account and commits the new
// account state plus the returned transaction atomically. Any error —
// from fn or from the database — rolls the whole unit back.
func (s *AccountStore) WithAccount(ctx context.Context, accountID string, fn func(account *models.Account) (*models.Transaction, error)) (models.Account, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Account{}, storeErr("begin", err)
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	var account models.Account
	account, err = s.lockAccount(ctx, dbTx, accountID)
	if err != nil {
		return models.Account{}, err
	}

	var tx *models.Transaction
	tx, err = fn(&account)
	if err != nil {
		return models.Account{}, err
	}

	if err = s.saveAccount(ctx, dbTx, account); err != nil {
		return models.Account{}, err
	}
	if tx != nil {
		if err = s.appendTransaction(ctx, dbTx, *tx); err != nil {
			return models.Account{}, err
		}
	}

	if err = dbTx.Commit(); err != nil {
		return models.Account{}, storeErr("commit", err)
	}
	return account, nil
}

// ReadAccount reuses the WithAccount path so lazy creation stays under
// the row lock and a reader never observes a partially-applied trade.
func (s *AccountStore) ReadAccount(ctx context.Context, accountID string) (models.Account, error) {
	return s.WithAccount(ctx, accountID, func(account *models.Account) (*models.Transaction, error) {
		return nil, nil
	})
}

// ListTransactions returns the account's transactions most-recent-first.
func (s *AccountStore) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	const query = `SELECT id, account_id, symbol, shares, price, type, total, created_at
	FROM transactions WHERE account_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Symbol, &tx.Shares, &tx.Price, &tx.Type, &tx.Total, &tx.CreatedAt); err != nil {
			return nil, storeErr("scan transaction", err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list transactions", err)
	}
	return result, nil
}

var _ interfaces.AccountStore = (*AccountStore)(nil)
