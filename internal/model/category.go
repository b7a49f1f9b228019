// Package model defines the core domain types shared across the
// application: users, wallets, categories, transactions, and report
// records.
package model

import "time"

// TransactionType partitions transactions and categories into income
// and expense.
type TransactionType string

const (
	// TypeIncome marks money flowing into a wallet.
	TypeIncome TransactionType = "income"
	// TypeExpense marks money flowing out of a wallet.
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the known values.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category is a user-defined label partitioning transactions by
// purpose. A category's type is fixed at creation; renaming is the
// only permitted mutation, so referenced categories can never drift
// out of agreement with the transactions pointing at them.
type Category struct {
	CreatedAt time.Time
	Name      string
	Type      TransactionType
	ID        int64
	UserID    int64
}
