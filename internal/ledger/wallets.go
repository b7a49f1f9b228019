package ledger

import (
	"context"
	"fmt"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/model"
)

// CreateWallet creates a wallet for the user. The cached balance
// starts at the initial balance.
func (s *Service) CreateWallet(ctx context.Context, userID int64, name string, initialBalance model.Money) (*model.Wallet, error) {
	return s.store.CreateWallet(ctx, userID, name, initialBalance)
}

// Wallets returns the user's wallets.
func (s *Service) Wallets(ctx context.Context, userID int64) ([]model.Wallet, error) {
	return s.store.GetWalletsByUser(ctx, userID)
}

// GetWalletByName resolves one of the user's wallets by name.
func (s *Service) GetWalletByName(ctx context.Context, userID int64, name string) (*model.Wallet, error) {
	return s.store.GetWalletByName(ctx, userID, name)
}

// RenameWallet renames a wallet the user owns.
func (s *Service) RenameWallet(ctx context.Context, userID, id int64, name string) error {
	if err := s.checkWalletOwner(ctx, userID, id); err != nil {
		return err
	}
	return s.store.RenameWallet(ctx, id, name)
}

// DeleteWallet removes a wallet the user owns. The wallet exclusively
// owns its transactions, so they are deleted with it; no balance
// reversal applies since the cached balance disappears too.
func (s *Service) DeleteWallet(ctx context.Context, userID, id int64) error {
	if err := s.checkWalletOwner(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteWallet(ctx, id)
}

func (s *Service) checkWalletOwner(ctx context.Context, userID, id int64) error {
	wallet, err := s.store.GetWallet(ctx, id)
	if err != nil {
		return err
	}
	if wallet.UserID != userID {
		return fmt.Errorf("%w: wallet %d", common.ErrPermissionDenied, id)
	}
	return nil
}

// CreateCategory creates a typed category for the user.
func (s *Service) CreateCategory(ctx context.Context, userID int64, name string, categoryType model.TransactionType) (*model.Category, error) {
	return s.store.CreateCategory(ctx, userID, name, categoryType)
}

// Categories returns the user's categories, optionally filtered by
// type.
func (s *Service) Categories(ctx context.Context, userID int64, categoryType *model.TransactionType) ([]model.Category, error) {
	return s.store.GetCategoriesByUser(ctx, userID, categoryType)
}

// GetCategoryByName resolves one of the user's categories by name and
// type.
func (s *Service) GetCategoryByName(ctx context.Context, userID int64, name string, categoryType model.TransactionType) (*model.Category, error) {
	return s.store.GetCategoryByName(ctx, userID, name, categoryType)
}

// RenameCategory renames a category the user owns. Type is immutable.
func (s *Service) RenameCategory(ctx context.Context, userID, id int64, name string) error {
	if err := s.checkCategoryOwner(ctx, userID, id); err != nil {
		return err
	}
	return s.store.RenameCategory(ctx, id, name)
}

// DeleteCategory removes a category the user owns. Transactions that
// referenced it survive uncategorized; wallet balances are unaffected.
func (s *Service) DeleteCategory(ctx context.Context, userID, id int64) error {
	if err := s.checkCategoryOwner(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteCategory(ctx, id)
}

func (s *Service) checkCategoryOwner(ctx context.Context, userID, id int64) error {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return fmt.Errorf("%w: category %d", common.ErrPermissionDenied, id)
	}
	return nil
}
