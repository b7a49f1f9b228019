// Package ledger implements the transaction/balance consistency core:
// every transaction mutation runs through here, inside a single
// storage transaction that adjusts the owning wallet's cached balance
// and writes the transaction row together.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
)

// Service owns all wallet, category, and transaction mutations. Every
// operation takes the acting user's id explicitly; nothing is scoped
// implicitly.
type Service struct {
	store service.Storage
}

// New creates a ledger service over the given storage.
func New(store service.Storage) *Service {
	return &Service{store: store}
}

// TransactionInput carries the user-supplied fields of a transaction
// create or update.
type TransactionInput struct {
	Date        time.Time
	Description string
	ImportHash  string
	Type        model.TransactionType
	Amount      model.Money
	CategoryID  *int64
	WalletID    int64
}

// CreateTransaction validates the input, applies its signed effect to
// the wallet's cached balance, and inserts the row in one atomic
// unit. The wallet write precedes the transaction write inside
// the same transaction, so a failure at any point leaves both
// untouched.
func (s *Service) CreateTransaction(ctx context.Context, userID int64, input TransactionInput) (*model.Transaction, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateInputShape(input); err != nil {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	wallet, err := s.validateTarget(ctx, tx, userID, input)
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		UserID:      userID,
		WalletID:    input.WalletID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        input.Date,
		ImportHash:  input.ImportHash,
	}

	newBalance := wallet.Balance.Add(txn.SignedEffect())
	if err := tx.UpdateWalletBalance(ctx, wallet.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to adjust wallet balance: %w", err)
	}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slog.Debug("created transaction",
		"id", txn.ID,
		"wallet_id", wallet.ID,
		"type", txn.Type,
		"amount", txn.Amount,
		"balance", newBalance)
	return txn, nil
}

// UpdateTransaction replaces a transaction's fields, reversing the
// stored row's effect on its original wallet before applying the new
// effect, possibly to a different wallet. The reversal is always
// computed against the row fetched fresh inside this transaction,
// never against caller-supplied values, so a concurrent or repeated
// edit can't double-apply.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id int64, input TransactionInput) (*model.Transaction, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateInputShape(input); err != nil {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := tx.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("%w: transaction %d", common.ErrPermissionDenied, id)
	}

	newWallet, err := s.validateTarget(ctx, tx, userID, input)
	if err != nil {
		return nil, err
	}

	// Reverse the old effect on the original wallet.
	oldWallet, err := tx.GetWallet(ctx, existing.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to load original wallet: %w", err)
	}
	oldBalance := oldWallet.Balance.Sub(existing.SignedEffect())

	updated := &model.Transaction{
		ID:          existing.ID,
		UserID:      existing.UserID,
		WalletID:    input.WalletID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        input.Date,
		CreatedAt:   existing.CreatedAt,
		ImportHash:  existing.ImportHash,
	}

	if oldWallet.ID == newWallet.ID {
		// Same wallet: reversal and application collapse into one write.
		if err := tx.UpdateWalletBalance(ctx, oldWallet.ID, oldBalance.Add(updated.SignedEffect())); err != nil {
			return nil, fmt.Errorf("failed to adjust wallet balance: %w", err)
		}
	} else {
		if err := tx.UpdateWalletBalance(ctx, oldWallet.ID, oldBalance); err != nil {
			return nil, fmt.Errorf("failed to reverse original wallet balance: %w", err)
		}
		if err := tx.UpdateWalletBalance(ctx, newWallet.ID, newWallet.Balance.Add(updated.SignedEffect())); err != nil {
			return nil, fmt.Errorf("failed to adjust new wallet balance: %w", err)
		}
	}

	if err := tx.UpdateTransaction(ctx, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slog.Debug("updated transaction",
		"id", updated.ID,
		"old_wallet_id", oldWallet.ID,
		"new_wallet_id", newWallet.ID)
	return updated, nil
}

// DeleteTransaction removes a transaction, reversing its effect on
// the wallet's cached balance in the same atomic unit. It is the
// exact inverse of CreateTransaction.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id int64) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := tx.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("%w: transaction %d", common.ErrPermissionDenied, id)
	}

	wallet, err := tx.GetWallet(ctx, existing.WalletID)
	if err != nil {
		return fmt.Errorf("failed to load wallet: %w", err)
	}

	if err := tx.UpdateWalletBalance(ctx, wallet.ID, wallet.Balance.Sub(existing.SignedEffect())); err != nil {
		return fmt.Errorf("failed to reverse wallet balance: %w", err)
	}
	if err := tx.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

// GetTransaction returns a transaction if the acting user owns it.
func (s *Service) GetTransaction(ctx context.Context, userID, id int64) (*model.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("%w: transaction %d", common.ErrPermissionDenied, id)
	}
	return txn, nil
}

// ListTransactions returns the user's transactions matching the
// filter, date descending. An inverted date range is simply a filter
// nothing matches: it yields an empty list, not an error.
func (s *Service) ListTransactions(ctx context.Context, userID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	return s.store.ListTransactions(ctx, userID, filter)
}
