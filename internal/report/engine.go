// Package report derives time-bucketed and category-bucketed
// aggregates from the transaction ledger. All accumulation happens on
// integer cents; missing buckets are zero-filled, never null.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
)

// Uncategorized is the bucket name for transactions whose category
// reference has been nulled (or was never set).
const Uncategorized = "Uncategorized"

// Engine computes reports over the ledger store. Reads run outside
// any explicit transaction; slight staleness across concurrent
// writers is acceptable for aggregates.
type Engine struct {
	store service.Storage
}

// NewEngine creates a reporting engine over the given storage.
func NewEngine(store service.Storage) *Engine {
	return &Engine{store: store}
}

func validateRange(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: %s after %s",
			common.ErrInvalidRange,
			start.Format("2006-01-02"),
			end.Format("2006-01-02"))
	}
	return nil
}

// Summary computes total income, total expense, and net over the
// range, plus the current (not historical) balance of every wallet
// the user owns. An empty range yields zero totals, not an error.
func (e *Engine) Summary(ctx context.Context, userID int64, start, end time.Time) (*model.SummaryReport, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	transactions, err := e.store.GetTransactionsByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var income, expense model.Money
	for i := range transactions {
		switch transactions[i].Type {
		case model.TypeIncome:
			income = income.Add(transactions[i].Amount)
		case model.TypeExpense:
			expense = expense.Add(transactions[i].Amount)
		}
	}

	wallets, err := e.store.GetWalletsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	balances := make([]model.WalletBalance, 0, len(wallets))
	for _, w := range wallets {
		balances = append(balances, model.WalletBalance{
			ID:      w.ID,
			Name:    w.Name,
			Balance: w.Balance,
		})
	}

	return &model.SummaryReport{
		Period:       model.Period{Start: start, End: end},
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
		Wallets:      balances,
	}, nil
}

// CategoryAnalysis totals the range per category name, separately for
// income and expenses, each sorted descending by total with a name
// tiebreak for determinism.
func (e *Engine) CategoryAnalysis(ctx context.Context, userID int64, start, end time.Time) (*model.CategoryAnalysis, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	transactions, err := e.store.GetTransactionsByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	names, err := e.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	incomeTotals := make(map[string]*model.CategoryTotal)
	expenseTotals := make(map[string]*model.CategoryTotal)

	for i := range transactions {
		txn := &transactions[i]

		bucket := Uncategorized
		if txn.CategoryID != nil {
			if name, ok := names[*txn.CategoryID]; ok {
				bucket = name
			}
		}

		totals := incomeTotals
		if txn.Type == model.TypeExpense {
			totals = expenseTotals
		}

		entry, ok := totals[bucket]
		if !ok {
			entry = &model.CategoryTotal{Category: bucket}
			totals[bucket] = entry
		}
		entry.Total = entry.Total.Add(txn.Amount)
		entry.Count++
	}

	return &model.CategoryAnalysis{
		Period:   model.Period{Start: start, End: end},
		Income:   sortedTotals(incomeTotals),
		Expenses: sortedTotals(expenseTotals),
	}, nil
}

// TimeAnalysis buckets the range's transactions by the calendar month
// of their user-assigned date (not created_at). Months appear in
// ascending order; a month with only one transaction type zero-fills
// the other. Months inside the range with no transactions at all are
// omitted.
func (e *Engine) TimeAnalysis(ctx context.Context, userID int64, start, end time.Time) (*model.TimeAnalysis, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	transactions, err := e.store.GetTransactionsByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	// The store returns rows oldest-first, so months are first
	// encountered in ascending order.
	var order []string
	months := make(map[string]*model.MonthlyTotal)

	for i := range transactions {
		txn := &transactions[i]
		key := txn.Date.Format("2006-01")

		entry, ok := months[key]
		if !ok {
			entry = &model.MonthlyTotal{Month: key}
			months[key] = entry
			order = append(order, key)
		}

		switch txn.Type {
		case model.TypeIncome:
			entry.Income = entry.Income.Add(txn.Amount)
		case model.TypeExpense:
			entry.Expense = entry.Expense.Add(txn.Amount)
		}
	}

	result := make([]model.MonthlyTotal, 0, len(order))
	for _, key := range order {
		entry := months[key]
		entry.Net = entry.Income.Sub(entry.Expense)
		result = append(result, *entry)
	}

	return &model.TimeAnalysis{
		Period: model.Period{Start: start, End: end},
		Months: result,
	}, nil
}

// categoryNames maps the user's category ids to names for bucket
// labeling.
func (e *Engine) categoryNames(ctx context.Context, userID int64) (map[int64]string, error) {
	categories, err := e.store.GetCategoriesByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func sortedTotals(totals map[string]*model.CategoryTotal) []model.CategoryTotal {
	result := make([]model.CategoryTotal, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Total.Cents != result[j].Total.Cents {
			return result[i].Total.Cents > result[j].Total.Cents
		}
		return result[i].Category < result[j].Category
	})

	return result
}
