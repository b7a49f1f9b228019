package model

import (
	"testing"
	"time"
)

func TestTransaction_SignedEffect(t *testing.T) {
	income := Transaction{Type: TypeIncome, Amount: Cents(500)}
	if got := income.SignedEffect(); got.Cents != 500 {
		t.Errorf("income SignedEffect = %d, want 500", got.Cents)
	}

	expense := Transaction{Type: TypeExpense, Amount: Cents(500)}
	if got := expense.SignedEffect(); got.Cents != -500 {
		t.Errorf("expense SignedEffect = %d, want -500", got.Cents)
	}
}

func TestTransaction_GenerateImportHash(t *testing.T) {
	txn := Transaction{
		Date:   time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Amount: Cents(1234),
	}

	first := txn.GenerateImportHash("FITID-1", "ACCT-1")
	if first == "" {
		t.Fatal("hash is empty")
	}
	if second := txn.GenerateImportHash("FITID-1", "ACCT-1"); second != first {
		t.Error("hash not stable across calls")
	}
	if other := txn.GenerateImportHash("FITID-2", "ACCT-1"); other == first {
		t.Error("different FITIDs produced the same hash")
	}

	moved := txn
	moved.Date = moved.Date.AddDate(0, 0, 1)
	if other := moved.GenerateImportHash("FITID-1", "ACCT-1"); other == first {
		t.Error("different dates produced the same hash")
	}
}

func TestTransactionType_Valid(t *testing.T) {
	if !TypeIncome.Valid() || !TypeExpense.Valid() {
		t.Error("known types must be valid")
	}
	if TransactionType("transfer").Valid() || TransactionType("").Valid() {
		t.Error("unknown types must be invalid")
	}
}
