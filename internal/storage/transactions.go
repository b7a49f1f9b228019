package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
)

const transactionColumns = `id, user_id, wallet_id, category_id, type, amount_cents, description, date, created_at, updated_at, import_hash`

// InsertTransaction writes a new transaction row and fills in its id.
// Balance maintenance is the ledger service's responsibility; callers
// there always invoke this inside the same transaction as the wallet
// update.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return s.insertTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) insertTransactionTx(ctx context.Context, q queryable, txn *model.Transaction) error {
	now := time.Now()
	result, err := q.ExecContext(ctx, `
		INSERT INTO transactions (user_id, wallet_id, category_id, type, amount_cents, description, date, created_at, updated_at, import_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.UserID,
		txn.WalletID,
		txn.CategoryID,
		string(txn.Type),
		txn.Amount.Cents,
		txn.Description,
		txn.Date,
		now,
		now,
		txn.ImportHash,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", mapSQLiteErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get transaction ID: %w", err)
	}

	txn.ID = id
	txn.CreatedAt = now
	txn.UpdatedAt = now
	return nil
}

// GetTransaction retrieves a single transaction by id.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getTransactionTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getTransactionTx(ctx context.Context, q queryable, id int64) (*model.Transaction, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ?
	`, id)

	txn, err := scanTransactionRow(row)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", mapSQLiteErr(err))
	}
	return txn, nil
}

// UpdateTransaction rewrites a transaction row's mutable fields.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return s.updateTransactionTx(ctx, s.db, txn)
}

func (s *SQLiteStorage) updateTransactionTx(ctx context.Context, q queryable, txn *model.Transaction) error {
	now := time.Now()
	result, err := q.ExecContext(ctx, `
		UPDATE transactions
		SET wallet_id = ?, category_id = ?, type = ?, amount_cents = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ?
	`,
		txn.WalletID,
		txn.CategoryID,
		string(txn.Type),
		txn.Amount.Cents,
		txn.Description,
		txn.Date,
		now,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", mapSQLiteErr(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	txn.UpdatedAt = now
	return nil
}

// DeleteTransaction removes a transaction row.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteTransactionTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteTransactionTx(ctx context.Context, q queryable, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", mapSQLiteErr(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListTransactions returns a user's transactions matching the filter.
// Each filter field is independently optional; set fields compose with
// AND. Ordering is date descending with id descending as the
// tiebreaker, so pagination-free listings are stable. No matches is an
// empty result, not an error.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listTransactionsTx(ctx, s.db, userID, filter)
}

func (s *SQLiteStorage) listTransactionsTx(ctx context.Context, q queryable, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?`
	args := []any{userID}

	if filter.Type != nil {
		if err := validateType(*filter.Type); err != nil {
			return nil, err
		}
		query += ` AND type = ?`
		args = append(args, string(*filter.Type))
	}
	if filter.WalletID != nil {
		query += ` AND wallet_id = ?`
		args = append(args, *filter.WalletID)
	}
	if filter.CategoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *filter.CategoryID)
	}
	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, *filter.EndDate)
	}

	query += ` ORDER BY date DESC, id DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", mapSQLiteErr(err))
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionsByDateRange returns a user's transactions with date
// in [start, end], oldest first. The reporting engine depends on the
// ascending order for deterministic month bucketing.
func (s *SQLiteStorage) GetTransactionsByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getTransactionsByDateRangeTx(ctx, s.db, userID, start, end)
}

func (s *SQLiteStorage) getTransactionsByDateRangeTx(ctx context.Context, q queryable, userID int64, start, end time.Time) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", mapSQLiteErr(err))
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// HasImportHash reports whether a user already has a transaction with
// the given statement-import hash.
func (s *SQLiteStorage) HasImportHash(ctx context.Context, userID int64, hash string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return s.hasImportHashTx(ctx, s.db, userID, hash)
}

func (s *SQLiteStorage) hasImportHashTx(ctx context.Context, q queryable, userID int64, hash string) (bool, error) {
	if err := validateString(hash, "hash"); err != nil {
		return false, err
	}

	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE user_id = ? AND import_hash = ?)
	`, userID, hash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check import hash: %w", mapSQLiteErr(err))
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionInto(scanner rowScanner, txn *model.Transaction) error {
	var txType string
	var amountCents int64
	var categoryID sql.NullInt64

	err := scanner.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.WalletID,
		&categoryID,
		&txType,
		&amountCents,
		&txn.Description,
		&txn.Date,
		&txn.CreatedAt,
		&txn.UpdatedAt,
		&txn.ImportHash,
	)
	if err != nil {
		return err
	}

	txn.Type = model.TransactionType(txType)
	txn.Amount = model.Cents(amountCents)
	if categoryID.Valid {
		id := categoryID.Int64
		txn.CategoryID = &id
	}
	return nil
}

func scanTransactionRow(row *sql.Row) (*model.Transaction, error) {
	var txn model.Transaction
	if err := scanTransactionInto(row, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := scanTransactionInto(rows, &txn); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
