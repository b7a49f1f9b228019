package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
	"github.com/tallyapp/tally/internal/storage"
)

func newTestService(t *testing.T) (*Service, service.Storage, int64) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	user, err := store.GetOrCreateUser(ctx, "test-user")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	return New(store), store, user.ID
}

func mustWallet(t *testing.T, svc *Service, userID int64, name string, initial int64) *model.Wallet {
	t.Helper()
	w, err := svc.CreateWallet(context.Background(), userID, name, model.Cents(initial))
	if err != nil {
		t.Fatalf("Failed to create wallet: %v", err)
	}
	return w
}

func walletBalance(t *testing.T, store service.Storage, id int64) int64 {
	t.Helper()
	w, err := store.GetWallet(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to get wallet: %v", err)
	}
	return w.Balance.Cents
}

func testDate() time.Time {
	return time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
}

func TestService_BalanceLifecycle(t *testing.T) {
	svc, store, userID := newTestService(t)
	ctx := context.Background()

	// Wallet starts at 100.00, an expense of 30.00 brings it to 70.00,
	// editing that expense into an income of 50.00 brings it to 150.00,
	// and deleting restores the initial 100.00.
	wallet := mustWallet(t, svc, userID, "Checking", 10000)

	txn, err := svc.CreateTransaction(ctx, userID, TransactionInput{
		WalletID: wallet.ID,
		Type:     model.TypeExpense,
		Amount:   model.Cents(3000),
		Date:     testDate(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if got := walletBalance(t, store, wallet.ID); got != 7000 {
		t.Errorf("balance after expense = %d, want 7000", got)
	}

	if _, err := svc.UpdateTransaction(ctx, userID, txn.ID, TransactionInput{
		WalletID: wallet.ID,
		Type:     model.TypeIncome,
		Amount:   model.Cents(5000),
		Date:     testDate(),
	}); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}
	if got := walletBalance(t, store, wallet.ID); got != 15000 {
		t.Errorf("balance after edit = %d, want 15000", got)
	}

	if err := svc.DeleteTransaction(ctx, userID, txn.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if got := walletBalance(t, store, wallet.ID); got != 10000 {
		t.Errorf("balance after delete = %d, want 10000", got)
	}
}

func TestService_UpdateTransaction_MovesBetweenWallets(t *testing.T) {
	svc, store, userID := newTestService(t)
	ctx := context.Background()

	source := mustWallet(t, svc, userID, "Checking", 10000)
	target := mustWallet(t, svc, userID, "Savings", 20000)

	txn, err := svc.CreateTransaction(ctx, userID, TransactionInput{
		WalletID: source.ID,
		Type:     model.TypeExpense,
		Amount:   model.Cents(2500),
		Date:     testDate(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if _, err := svc.UpdateTransaction(ctx, userID, txn.ID, TransactionInput{
		WalletID: target.ID,
		Type:     model.TypeExpense,
		Amount:   model.Cents(2500),
		Date:     testDate(),
	}); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}

	if got := walletBalance(t, store, source.ID); got != 10000 {
		t.Errorf("source balance = %d, want 10000", got)
	}
	if got := walletBalance(t, store, target.ID); got != 17500 {
		t.Errorf("target balance = %d, want 17500", got)
	}
}

func TestService_UpdateEquivalentToDeleteAndCreate(t *testing.T) {
	svc, store, userID := newTestService(t)
	ctx := context.Background()

	updated := mustWallet(t, svc, userID, "Updated", 10000)
	recreated := mustWallet(t, svc, userID, "Recreated", 10000)

	original := TransactionInput{
		Type:   model.TypeExpense,
		Amount: model.Cents(3000),
		Date:   testDate(),
	}
	edited := TransactionInput{
		Type:   model.TypeIncome,
		Amount: model.Cents(4500),
		Date:   testDate().AddDate(0, 0, 3),
	}

	original.WalletID = updated.ID
	edited.WalletID = updated.ID
	txn, err := svc.CreateTransaction(ctx, userID, original)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if _, err := svc.UpdateTransaction(ctx, userID, txn.ID, edited); err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}

	original.WalletID = recreated.ID
	edited.WalletID = recreated.ID
	txn2, err := svc.CreateTransaction(ctx, userID, original)
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, userID, txn2.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, userID, edited); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	got := walletBalance(t, store, updated.ID)
	want := walletBalance(t, store, recreated.ID)
	if got != want {
		t.Errorf("update path balance = %d, delete+create path = %d", got, want)
	}
}

func TestService_CreateTransaction_Validation(t *testing.T) {
	svc, store, userID := newTestService(t)
	ctx := context.Background()

	wallet := mustWallet(t, svc, userID, "Checking", 10000)
	food := func() *model.Category {
		c, err := svc.CreateCategory(ctx, userID, "Food", model.TypeExpense)
		if err != nil {
			t.Fatalf("Failed to create category: %v", err)
		}
		return c
	}()

	otherUser, err := store.GetOrCreateUser(ctx, "other-user")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	otherWallet := mustWallet(t, svc, otherUser.ID, "Theirs", 0)
	otherCategory, err := svc.CreateCategory(ctx, otherUser.ID, "Theirs", model.TypeExpense)
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	tests := []struct {
		wantErr error
		name    string
		input   TransactionInput
	}{
		{
			name: "zero amount",
			input: TransactionInput{
				WalletID: wallet.ID,
				Type:     model.TypeExpense,
				Amount:   model.Cents(0),
				Date:     testDate(),
			},
			wantErr: common.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			input: TransactionInput{
				WalletID: wallet.ID,
				Type:     model.TypeExpense,
				Amount:   model.Cents(-100),
				Date:     testDate(),
			},
			wantErr: common.ErrInvalidAmount,
		},
		{
			name: "wallet owned by another user",
			input: TransactionInput{
				WalletID: otherWallet.ID,
				Type:     model.TypeExpense,
				Amount:   model.Cents(100),
				Date:     testDate(),
			},
			wantErr: common.ErrPermissionDenied,
		},
		{
			name: "category owned by another user",
			input: TransactionInput{
				WalletID:   wallet.ID,
				CategoryID: &otherCategory.ID,
				Type:       model.TypeExpense,
				Amount:     model.Cents(100),
				Date:       testDate(),
			},
			wantErr: common.ErrPermissionDenied,
		},
		{
			name: "category type mismatch",
			input: TransactionInput{
				WalletID:   wallet.ID,
				CategoryID: &food.ID,
				Type:       model.TypeIncome,
				Amount:     model.Cents(100),
				Date:       testDate(),
			},
			wantErr: common.ErrTypeMismatch,
		},
		{
			name: "missing wallet",
			input: TransactionInput{
				WalletID: 99999,
				Type:     model.TypeExpense,
				Amount:   model.Cents(100),
				Date:     testDate(),
			},
			wantErr: common.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(ctx, userID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateTransaction error = %v, want %v", err, tt.wantErr)
			}
			// A rejected create must leave the balance untouched.
			if got := walletBalance(t, store, wallet.ID); got != 10000 {
				t.Errorf("balance after rejected create = %d, want 10000", got)
			}
		})
	}
}

func TestService_DeleteTransaction_OtherUser(t *testing.T) {
	svc, store, userID := newTestService(t)
	ctx := context.Background()

	wallet := mustWallet(t, svc, userID, "Checking", 10000)
	txn, err := svc.CreateTransaction(ctx, userID, TransactionInput{
		WalletID: wallet.ID,
		Type:     model.TypeExpense,
		Amount:   model.Cents(500),
		Date:     testDate(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	other, err := store.GetOrCreateUser(ctx, "other-user")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if err := svc.DeleteTransaction(ctx, other.ID, txn.ID); !errors.Is(err, common.ErrPermissionDenied) {
		t.Errorf("DeleteTransaction error = %v, want ErrPermissionDenied", err)
	}
	if got := walletBalance(t, store, wallet.ID); got != 9500 {
		t.Errorf("balance after denied delete = %d, want 9500", got)
	}
}

func TestService_GetTransaction_OtherUser(t *testing.T) {
	svc, store, userID := newTestService(t)
	ctx := context.Background()

	wallet := mustWallet(t, svc, userID, "Checking", 0)
	txn, err := svc.CreateTransaction(ctx, userID, TransactionInput{
		WalletID: wallet.ID,
		Type:     model.TypeIncome,
		Amount:   model.Cents(500),
		Date:     testDate(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	other, err := store.GetOrCreateUser(ctx, "other-user")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if _, err := svc.GetTransaction(ctx, other.ID, txn.ID); !errors.Is(err, common.ErrPermissionDenied) {
		t.Errorf("GetTransaction error = %v, want ErrPermissionDenied", err)
	}
}

func TestService_ListTransactions_InvertedRangeIsEmpty(t *testing.T) {
	svc, _, userID := newTestService(t)
	ctx := context.Background()

	wallet := mustWallet(t, svc, userID, "Checking", 0)
	if _, err := svc.CreateTransaction(ctx, userID, TransactionInput{
		WalletID: wallet.ID,
		Type:     model.TypeIncome,
		Amount:   model.Cents(500),
		Date:     testDate(),
	}); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	start := testDate().AddDate(0, 1, 0)
	end := testDate().AddDate(0, -1, 0)
	txns, err := svc.ListTransactions(ctx, userID, service.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("inverted range returned %d transactions, want 0", len(txns))
	}
}

func TestService_DeleteWallet_RemovesTransactions(t *testing.T) {
	svc, _, userID := newTestService(t)
	ctx := context.Background()

	wallet := mustWallet(t, svc, userID, "Checking", 0)
	txn, err := svc.CreateTransaction(ctx, userID, TransactionInput{
		WalletID: wallet.ID,
		Type:     model.TypeIncome,
		Amount:   model.Cents(500),
		Date:     testDate(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := svc.DeleteWallet(ctx, userID, wallet.ID); err != nil {
		t.Fatalf("DeleteWallet failed: %v", err)
	}

	if _, err := svc.GetTransaction(ctx, userID, txn.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetTransaction after wallet delete = %v, want ErrNotFound", err)
	}
}
