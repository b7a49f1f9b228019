package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
)

// validateAmount enforces the positive-amount invariant. It runs
// before any storage access so an invalid amount can never reach a
// write.
func validateAmount(amount model.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", common.ErrInvalidAmount, amount)
	}
	return nil
}

// validateInputShape checks the structurally required input fields.
func validateInputShape(input TransactionInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("invalid transaction type %q", input.Type)
	}
	if input.WalletID == 0 {
		return errors.New("wallet is required")
	}
	if input.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// validateTarget is the validation gate run before the balance
// maintainer touches anything: the target wallet must exist and belong
// to the acting user, and the category, when present, must belong
// to the same user and carry the transaction's type. It has no side
// effects; it returns the wallet so the caller doesn't fetch twice.
func (s *Service) validateTarget(ctx context.Context, tx service.Tx, userID int64, input TransactionInput) (*model.Wallet, error) {
	wallet, err := tx.GetWallet(ctx, input.WalletID)
	if err != nil {
		return nil, fmt.Errorf("wallet %d: %w", input.WalletID, err)
	}
	if wallet.UserID != userID {
		return nil, fmt.Errorf("%w: wallet %d", common.ErrPermissionDenied, input.WalletID)
	}

	if input.CategoryID != nil {
		category, err := tx.GetCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category %d: %w", *input.CategoryID, err)
		}
		if category.UserID != userID {
			return nil, fmt.Errorf("%w: category %d", common.ErrPermissionDenied, *input.CategoryID)
		}
		if category.Type != input.Type {
			return nil, fmt.Errorf("%w: category %q is %s, transaction is %s",
				common.ErrTypeMismatch, category.Name, category.Type, input.Type)
		}
	}

	return wallet, nil
}
