package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
	"github.com/tallyapp/tally/internal/storage"
)

type fixture struct {
	store  service.Storage
	ledger *ledger.Service
	engine *Engine
	userID int64
}

func newFixture(t *testing.T) *fixture {
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

	return &fixture{
		store:  store,
		ledger: ledger.New(store),
		engine: NewEngine(store),
		userID: user.ID,
	}
}

func (f *fixture) wallet(t *testing.T, name string, initial int64) *model.Wallet {
	t.Helper()
	w, err := f.store.CreateWallet(context.Background(), f.userID, name, model.Cents(initial))
	if err != nil {
		t.Fatalf("Failed to create wallet: %v", err)
	}
	return w
}

func (f *fixture) category(t *testing.T, name string, txType model.TransactionType) *model.Category {
	t.Helper()
	c, err := f.store.CreateCategory(context.Background(), f.userID, name, txType)
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return c
}

func (f *fixture) add(t *testing.T, walletID int64, categoryID *int64, txType model.TransactionType, cents int64, date time.Time) *model.Transaction {
	t.Helper()
	txn, err := f.ledger.CreateTransaction(context.Background(), f.userID, ledger.TransactionInput{
		WalletID:   walletID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     model.Cents(cents),
		Date:       date,
	})
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}
	return txn
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestEngine_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wallet := f.wallet(t, "Checking", 10000)
	f.add(t, wallet.ID, nil, model.TypeIncome, 10000, day(2024, time.February, 1))
	f.add(t, wallet.ID, nil, model.TypeExpense, 3000, day(2024, time.January, 10))
	f.add(t, wallet.ID, nil, model.TypeExpense, 1000, day(2024, time.January, 20))

	report, err := f.engine.Summary(ctx, f.userID, day(2024, time.January, 1), day(2024, time.February, 28))
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if report.TotalIncome.Cents != 10000 {
		t.Errorf("TotalIncome = %d, want 10000", report.TotalIncome.Cents)
	}
	if report.TotalExpense.Cents != 4000 {
		t.Errorf("TotalExpense = %d, want 4000", report.TotalExpense.Cents)
	}
	if report.Net.Cents != 6000 {
		t.Errorf("Net = %d, want 6000", report.Net.Cents)
	}

	if len(report.Wallets) != 1 {
		t.Fatalf("Wallets count = %d, want 1", len(report.Wallets))
	}
	if report.Wallets[0].Balance.Cents != 16000 {
		t.Errorf("Wallet balance = %d, want 16000", report.Wallets[0].Balance.Cents)
	}
}

func TestEngine_Summary_ExcludesOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wallet := f.wallet(t, "Checking", 0)
	f.add(t, wallet.ID, nil, model.TypeIncome, 5000, day(2023, time.December, 31))
	f.add(t, wallet.ID, nil, model.TypeIncome, 2500, day(2024, time.January, 15))
	f.add(t, wallet.ID, nil, model.TypeIncome, 5000, day(2024, time.February, 1))

	report, err := f.engine.Summary(ctx, f.userID, day(2024, time.January, 1), day(2024, time.January, 31))
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if report.TotalIncome.Cents != 2500 {
		t.Errorf("TotalIncome = %d, want 2500", report.TotalIncome.Cents)
	}
	// Current balances are point-in-time, not range-scoped.
	if report.Wallets[0].Balance.Cents != 12500 {
		t.Errorf("Wallet balance = %d, want 12500", report.Wallets[0].Balance.Cents)
	}
}

func TestEngine_Summary_EmptyRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.wallet(t, "Checking", 5000)

	report, err := f.engine.Summary(ctx, f.userID, day(2024, time.January, 1), day(2024, time.January, 31))
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if report.TotalIncome.Cents != 0 || report.TotalExpense.Cents != 0 || report.Net.Cents != 0 {
		t.Errorf("empty range totals = %v/%v/%v, want all zero",
			report.TotalIncome, report.TotalExpense, report.Net)
	}
}

func TestEngine_InvalidRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := day(2024, time.March, 1)
	end := day(2024, time.January, 1)

	if _, err := f.engine.Summary(ctx, f.userID, start, end); !errors.Is(err, common.ErrInvalidRange) {
		t.Errorf("Summary error = %v, want ErrInvalidRange", err)
	}
	if _, err := f.engine.CategoryAnalysis(ctx, f.userID, start, end); !errors.Is(err, common.ErrInvalidRange) {
		t.Errorf("CategoryAnalysis error = %v, want ErrInvalidRange", err)
	}
	if _, err := f.engine.TimeAnalysis(ctx, f.userID, start, end); !errors.Is(err, common.ErrInvalidRange) {
		t.Errorf("TimeAnalysis error = %v, want ErrInvalidRange", err)
	}
}

func TestEngine_CategoryAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wallet := f.wallet(t, "Checking", 0)
	food := f.category(t, "Food", model.TypeExpense)
	transport := f.category(t, "Transport", model.TypeExpense)
	salary := f.category(t, "Salary", model.TypeIncome)

	f.add(t, wallet.ID, &food.ID, model.TypeExpense, 3000, day(2024, time.January, 5))
	f.add(t, wallet.ID, &food.ID, model.TypeExpense, 2000, day(2024, time.January, 12))
	f.add(t, wallet.ID, &transport.ID, model.TypeExpense, 1500, day(2024, time.January, 8))
	f.add(t, wallet.ID, &salary.ID, model.TypeIncome, 20000, day(2024, time.January, 1))
	f.add(t, wallet.ID, nil, model.TypeExpense, 700, day(2024, time.January, 20))

	report, err := f.engine.CategoryAnalysis(ctx, f.userID, day(2024, time.January, 1), day(2024, time.January, 31))
	if err != nil {
		t.Fatalf("CategoryAnalysis failed: %v", err)
	}

	wantExpenses := []model.CategoryTotal{
		{Category: "Food", Total: model.Cents(5000), Count: 2},
		{Category: "Transport", Total: model.Cents(1500), Count: 1},
		{Category: Uncategorized, Total: model.Cents(700), Count: 1},
	}
	if len(report.Expenses) != len(wantExpenses) {
		t.Fatalf("Expenses count = %d, want %d", len(report.Expenses), len(wantExpenses))
	}
	for i, want := range wantExpenses {
		got := report.Expenses[i]
		if got.Category != want.Category || got.Total != want.Total || got.Count != want.Count {
			t.Errorf("Expenses[%d] = %+v, want %+v", i, got, want)
		}
	}

	if len(report.Income) != 1 {
		t.Fatalf("Income count = %d, want 1", len(report.Income))
	}
	if report.Income[0].Category != "Salary" || report.Income[0].Total.Cents != 20000 {
		t.Errorf("Income[0] = %+v, want Salary/20000", report.Income[0])
	}
}

func TestEngine_CategoryAnalysis_DeletedCategoryBecomesUncategorized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wallet := f.wallet(t, "Checking", 0)
	food := f.category(t, "Food", model.TypeExpense)
	f.add(t, wallet.ID, &food.ID, model.TypeExpense, 2500, day(2024, time.January, 5))

	if err := f.store.DeleteCategory(ctx, food.ID); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}

	report, err := f.engine.CategoryAnalysis(ctx, f.userID, day(2024, time.January, 1), day(2024, time.January, 31))
	if err != nil {
		t.Fatalf("CategoryAnalysis failed: %v", err)
	}

	if len(report.Expenses) != 1 || report.Expenses[0].Category != Uncategorized {
		t.Fatalf("Expenses = %+v, want single Uncategorized bucket", report.Expenses)
	}
	if report.Expenses[0].Total.Cents != 2500 {
		t.Errorf("Uncategorized total = %d, want 2500", report.Expenses[0].Total.Cents)
	}
}

func TestEngine_TimeAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wallet := f.wallet(t, "Checking", 0)
	f.add(t, wallet.ID, nil, model.TypeExpense, 4000, day(2024, time.January, 15))
	f.add(t, wallet.ID, nil, model.TypeIncome, 10000, day(2024, time.February, 1))

	report, err := f.engine.TimeAnalysis(ctx, f.userID, day(2024, time.January, 1), day(2024, time.March, 31))
	if err != nil {
		t.Fatalf("TimeAnalysis failed: %v", err)
	}

	want := []model.MonthlyTotal{
		{Month: "2024-01", Income: model.Cents(0), Expense: model.Cents(4000), Net: model.Cents(-4000)},
		{Month: "2024-02", Income: model.Cents(10000), Expense: model.Cents(0), Net: model.Cents(10000)},
	}
	if len(report.Months) != len(want) {
		t.Fatalf("Months count = %d, want %d", len(report.Months), len(want))
	}
	for i, w := range want {
		if report.Months[i] != w {
			t.Errorf("Months[%d] = %+v, want %+v", i, report.Months[i], w)
		}
	}
}

func TestEngine_TimeAnalysis_UsesTransactionDateNotCreatedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Rows are created now but dated in the past; bucketing must follow
	// the user-assigned date.
	wallet := f.wallet(t, "Checking", 0)
	f.add(t, wallet.ID, nil, model.TypeIncome, 1000, day(2022, time.June, 1))

	report, err := f.engine.TimeAnalysis(ctx, f.userID, day(2022, time.January, 1), day(2022, time.December, 31))
	if err != nil {
		t.Fatalf("TimeAnalysis failed: %v", err)
	}

	if len(report.Months) != 1 || report.Months[0].Month != "2022-06" {
		t.Fatalf("Months = %+v, want single 2022-06 bucket", report.Months)
	}
}

func TestEngine_ScopedToUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wallet := f.wallet(t, "Checking", 0)
	f.add(t, wallet.ID, nil, model.TypeIncome, 5000, day(2024, time.January, 10))

	other, err := f.store.GetOrCreateUser(ctx, "other-user")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	report, err := f.engine.Summary(ctx, other.ID, day(2024, time.January, 1), day(2024, time.January, 31))
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if report.TotalIncome.Cents != 0 || len(report.Wallets) != 0 {
		t.Errorf("other user sees income %d and %d wallets, want none",
			report.TotalIncome.Cents, len(report.Wallets))
	}
}
