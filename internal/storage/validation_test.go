package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/tallyapp/tally/internal/model"
)

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: "checking", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "whitespace only", value: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.value, "name")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	valid := func() *model.Transaction {
		return &model.Transaction{
			UserID:   1,
			WalletID: 1,
			Type:     model.TypeExpense,
			Amount:   model.Cents(100),
			Date:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		mutate  func(*model.Transaction)
		wantErr error
		name    string
		nilTxn  bool
	}{
		{name: "valid", mutate: func(*model.Transaction) {}},
		{name: "nil", nilTxn: true, wantErr: ErrNilParameter},
		{
			name:    "bad type",
			mutate:  func(txn *model.Transaction) { txn.Type = "transfer" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "missing user",
			mutate:  func(txn *model.Transaction) { txn.UserID = 0 },
			wantErr: ErrInvalidTransaction,
		},
		{
			name:    "missing wallet",
			mutate:  func(txn *model.Transaction) { txn.WalletID = 0 },
			wantErr: ErrInvalidTransaction,
		},
		{
			name:    "zero date",
			mutate:  func(txn *model.Transaction) { txn.Date = time.Time{} },
			wantErr: ErrInvalidTransaction,
		},
		{
			name:    "zero amount",
			mutate:  func(txn *model.Transaction) { txn.Amount = model.Cents(0) },
			wantErr: ErrInvalidTransaction,
		},
		{
			name:    "negative amount",
			mutate:  func(txn *model.Transaction) { txn.Amount = model.Cents(-5) },
			wantErr: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txn *model.Transaction
			if !tt.nilTxn {
				txn = valid()
				tt.mutate(txn)
			}
			err := validateTransaction(txn)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateTransaction() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateTransaction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
