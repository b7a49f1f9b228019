package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/model"
)

// CreateWallet creates a new wallet for a user. The cached balance
// starts equal to the initial balance.
func (s *SQLiteStorage) CreateWallet(ctx context.Context, userID int64, name string, initialBalance model.Money) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.createWalletTx(ctx, s.db, userID, name, initialBalance)
}

func (s *SQLiteStorage) createWalletTx(ctx context.Context, q queryable, userID int64, name string, initialBalance model.Money) (*model.Wallet, error) {
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := q.ExecContext(ctx, `
		INSERT INTO wallets (user_id, name, balance_cents, initial_balance_cents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, name, initialBalance.Cents, initialBalance.Cents, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", mapSQLiteErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet ID: %w", err)
	}

	slog.Info("created wallet", "name", name, "id", id, "user_id", userID)
	return &model.Wallet{
		ID:             id,
		UserID:         userID,
		Name:           name,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// GetWallet retrieves a wallet by id.
func (s *SQLiteStorage) GetWallet(ctx context.Context, id int64) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getWalletTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getWalletTx(ctx context.Context, q queryable, id int64) (*model.Wallet, error) {
	return scanWallet(q.QueryRowContext(ctx, `
		SELECT id, user_id, name, balance_cents, initial_balance_cents, created_at, updated_at
		FROM wallets
		WHERE id = ?
	`, id))
}

// GetWalletByName retrieves a user's wallet by name.
func (s *SQLiteStorage) GetWalletByName(ctx context.Context, userID int64, name string) (*model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getWalletByNameTx(ctx, s.db, userID, name)
}

func (s *SQLiteStorage) getWalletByNameTx(ctx context.Context, q queryable, userID int64, name string) (*model.Wallet, error) {
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return scanWallet(q.QueryRowContext(ctx, `
		SELECT id, user_id, name, balance_cents, initial_balance_cents, created_at, updated_at
		FROM wallets
		WHERE user_id = ? AND name = ?
	`, userID, name))
}

// GetWalletsByUser returns all wallets owned by a user, ordered by
// name.
func (s *SQLiteStorage) GetWalletsByUser(ctx context.Context, userID int64) ([]model.Wallet, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getWalletsByUserTx(ctx, s.db, userID)
}

func (s *SQLiteStorage) getWalletsByUserTx(ctx context.Context, q queryable, userID int64) ([]model.Wallet, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, name, balance_cents, initial_balance_cents, created_at, updated_at
		FROM wallets
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", mapSQLiteErr(err))
	}
	defer func() { _ = rows.Close() }()

	var wallets []model.Wallet
	for rows.Next() {
		var w model.Wallet
		var balance, initial int64
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &balance, &initial, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		w.Balance = model.Cents(balance)
		w.InitialBalance = model.Cents(initial)
		wallets = append(wallets, w)
	}

	return wallets, rows.Err()
}

// UpdateWalletBalance writes a wallet's cached balance. Only the
// ledger service calls this, always inside the same transaction as the
// transaction-row write it reflects.
func (s *SQLiteStorage) UpdateWalletBalance(ctx context.Context, id int64, balance model.Money) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.updateWalletBalanceTx(ctx, s.db, id, balance)
}

func (s *SQLiteStorage) updateWalletBalanceTx(ctx context.Context, q queryable, id int64, balance model.Money) error {
	result, err := q.ExecContext(ctx, `
		UPDATE wallets SET balance_cents = ?, updated_at = ? WHERE id = ?
	`, balance.Cents, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance: %w", mapSQLiteErr(err))
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

// RenameWallet changes a wallet's name.
func (s *SQLiteStorage) RenameWallet(ctx context.Context, id int64, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.renameWalletTx(ctx, s.db, id, name)
}

func (s *SQLiteStorage) renameWalletTx(ctx context.Context, q queryable, id int64, name string) error {
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE wallets SET name = ?, updated_at = ? WHERE id = ?
	`, name, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to rename wallet: %w", mapSQLiteErr(err))
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

// DeleteWallet removes a wallet. Its transactions cascade away with
// it; the wallet exclusively owns them.
func (s *SQLiteStorage) DeleteWallet(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteWalletTx(ctx, s.db, id)
}

func (s *SQLiteStorage) deleteWalletTx(ctx context.Context, q queryable, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM wallets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", mapSQLiteErr(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	slog.Info("deleted wallet", "id", id)
	return nil
}

func scanWallet(row *sql.Row) (*model.Wallet, error) {
	var w model.Wallet
	var balance, initial int64

	err := row.Scan(&w.ID, &w.UserID, &w.Name, &balance, &initial, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", mapSQLiteErr(err))
	}

	w.Balance = model.Cents(balance)
	w.InitialBalance = model.Cents(initial)
	return &w, nil
}
