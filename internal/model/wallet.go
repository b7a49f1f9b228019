package model

import "time"

// Wallet is a named money container owned by a single user.
//
// Balance is a derived, cached value: at every commit it equals
// InitialBalance plus the signed effects of all transactions currently
// referencing the wallet. Only the ledger service mutates it; user
// input never writes Balance directly after creation.
type Wallet struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Name           string
	Balance        Money
	InitialBalance Money
	ID             int64
	UserID         int64
}
