package model

import "time"

// User is an owner record. Registration, authentication, and email
// verification live outside this system; the ledger only needs a
// stable owner identity to scope wallets, categories, and
// transactions.
type User struct {
	CreatedAt time.Time
	Name      string
	ID        int64
}
