package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tallyapp/tally/internal/cli"
	"github.com/tallyapp/tally/internal/config"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
	"github.com/tallyapp/tally/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// currentUser resolves the acting user, creating it on first use.
func currentUser(ctx context.Context, store service.Storage) (*model.User, error) {
	name := viper.GetString("user")
	if name == "" {
		name = "default"
	}
	return store.GetOrCreateUser(ctx, name)
}

// resolveWallet finds one of the user's wallets by name.
func resolveWallet(ctx context.Context, store service.Storage, userID int64, name string) (*model.Wallet, error) {
	wallet, err := store.GetWalletByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("wallet %q: %w", name, err)
	}
	return wallet, nil
}

// resolveCategory finds one of the user's categories by name and type.
func resolveCategory(ctx context.Context, store service.Storage, userID int64, name string, txType model.TransactionType) (*model.Category, error) {
	category, err := store.GetCategoryByName(ctx, userID, name, txType)
	if err != nil {
		return nil, fmt.Errorf("category %q (%s): %w", name, txType, err)
	}
	return category, nil
}

// parseDate parses a YYYY-MM-DD date argument.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// todayUTC returns the current date truncated to midnight UTC.
func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// parsePeriod resolves --start/--end flags, defaulting to the current
// calendar month.
func parsePeriod(startStr, endStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	var err error
	if startStr != "" {
		if start, err = parseDate(startStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		if end, err = parseDate(endStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}

// parseType parses an income/expense argument.
func parseType(s string) (model.TransactionType, error) {
	t := model.TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid type %q, expected income or expense", s)
	}
	return t, nil
}

// styledAmount renders a signed amount with income/expense coloring.
func styledAmount(amount model.Money) string {
	if amount.Cents < 0 {
		return cli.AmountNegativeStyle.Render(amount.String())
	}
	return cli.AmountPositiveStyle.Render(amount.String())
}
