package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction is a single dated income or expense event affecting
// exactly one wallet. The wallet owns its transactions (deleting the
// wallet cascades); the category is a nullable weak reference
// (deleting the category nulls it out, the transaction survives).
type Transaction struct {
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Description string
	ImportHash  string
	Type        TransactionType
	Amount      Money
	CategoryID  *int64
	ID          int64
	UserID      int64
	WalletID    int64
}

// SignedEffect returns the transaction's contribution to its wallet's
// balance: +Amount for income, -Amount for expense.
func (t *Transaction) SignedEffect() Money {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// GenerateImportHash creates a stable hash for statement-import
// deduplication from the fields a bank export reproduces.
func (t *Transaction) GenerateImportHash(fitID, accountID string) string {
	data := fmt.Sprintf("%s:%s:%s:%d",
		fitID,
		accountID,
		t.Date.Format("2006-01-02"),
		t.Amount.Cents)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}
