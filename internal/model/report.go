package model

import "time"

// Period is the inclusive date range a report covers.
type Period struct {
	Start time.Time
	End   time.Time
}

// WalletBalance is a wallet's current cached balance as included in a
// summary report. Reports show current balances, not balances as of
// the end of the period.
type WalletBalance struct {
	Name    string
	Balance Money
	ID      int64
}

// SummaryReport aggregates income and expense totals over a period
// together with every wallet's current balance.
type SummaryReport struct {
	Period       Period
	Wallets      []WalletBalance
	TotalIncome  Money
	TotalExpense Money
	Net          Money
}

// CategoryTotal is one category bucket in a category analysis.
// Transactions with no category fall into the distinguished
// "Uncategorized" bucket.
type CategoryTotal struct {
	Category string
	Total    Money
	Count    int
}

// CategoryAnalysis breaks a period down per category, separately for
// income and expenses, each ordered descending by total.
type CategoryAnalysis struct {
	Period   Period
	Income   []CategoryTotal
	Expenses []CategoryTotal
}

// MonthlyTotal is one calendar-month bucket in a time analysis. Month
// is formatted "2006-01". A month with transactions of only one type
// zero-fills the other.
type MonthlyTotal struct {
	Month   string
	Income  Money
	Expense Money
	Net     Money
}

// TimeAnalysis buckets a period's transactions by the calendar month
// of their user-assigned date, in ascending month order.
type TimeAnalysis struct {
	Period Period
	Months []MonthlyTotal
}
