// Package service defines the interfaces between the ledger core and
// its collaborators, most importantly the persistence contract.
package service

import (
	"context"
	"time"

	"github.com/tallyapp/tally/internal/model"
)

// TransactionFilter defines the optional filters for transaction
// queries. A nil field means no constraint; set fields compose with
// logical AND. Results are ordered date descending, ties broken by id
// descending.
type TransactionFilter struct {
	Type       *model.TransactionType
	WalletID   *int64
	CategoryID *int64
	StartDate  *time.Time
	EndDate    *time.Time
}

// Storage defines the contract for the persistence layer. Every
// operation is scoped by explicit owner id; there is no implicit
// current user.
type Storage interface {
	// User operations
	GetOrCreateUser(ctx context.Context, name string) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)

	// Wallet operations
	CreateWallet(ctx context.Context, userID int64, name string, initialBalance model.Money) (*model.Wallet, error)
	GetWallet(ctx context.Context, id int64) (*model.Wallet, error)
	GetWalletByName(ctx context.Context, userID int64, name string) (*model.Wallet, error)
	GetWalletsByUser(ctx context.Context, userID int64) ([]model.Wallet, error)
	UpdateWalletBalance(ctx context.Context, id int64, balance model.Money) error
	RenameWallet(ctx context.Context, id int64, name string) error
	DeleteWallet(ctx context.Context, id int64) error

	// Category operations
	CreateCategory(ctx context.Context, userID int64, name string, categoryType model.TransactionType) (*model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	GetCategoryByName(ctx context.Context, userID int64, name string, categoryType model.TransactionType) (*model.Category, error)
	GetCategoriesByUser(ctx context.Context, userID int64, categoryType *model.TransactionType) ([]model.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error

	// Transaction operations
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, id int64) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionsByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]model.Transaction, error)
	HasImportHash(ctx context.Context, userID int64, hash string) (bool, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx represents a database transaction. All Storage methods invoked
// through a Tx take effect atomically at Commit.
type Tx interface {
	Commit() error
	Rollback() error
	Storage
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
