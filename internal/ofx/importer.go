package ofx

import (
	"context"
	"fmt"

	"github.com/tallyapp/tally/internal/common"
	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer writes parsed statement entries into a wallet through the
// ledger service, skipping entries already imported.
type Importer struct {
	ledger   *ledger.Service
	store    service.Storage
	progress func()
	dryRun   bool
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithDryRun makes the importer report what it would do without
// writing anything.
func WithDryRun() ImporterOption {
	return func(i *Importer) { i.dryRun = true }
}

// WithProgress registers a callback invoked once per processed entry.
func WithProgress(fn func()) ImporterOption {
	return func(i *Importer) { i.progress = fn }
}

// NewImporter creates an importer over the given ledger service and
// store.
func NewImporter(svc *ledger.Service, store service.Storage, opts ...ImporterOption) *Importer {
	imp := &Importer{ledger: svc, store: store}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import writes the entries into the wallet as transactions. An entry
// whose import hash already exists for the user is skipped, so
// re-importing an overlapping statement is safe. Each entry commits
// independently; a failing entry is counted and logged but doesn't
// abort the rest.
func (i *Importer) Import(ctx context.Context, userID, walletID int64, entries []Entry) (*ImportResult, error) {
	result := &ImportResult{}

	for _, entry := range entries {
		if err := i.importEntry(ctx, userID, walletID, entry, result); err != nil {
			result.Failed++
			common.LogError(err, "Failed to import entry", common.Fields{
				"fitid": entry.FitID,
				"date":  entry.Date.Format("2006-01-02"),
			})
		}
		if i.progress != nil {
			i.progress()
		}
	}

	common.LogInfo("Import finished", common.Fields{
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
		"dry_run":  i.dryRun,
	})
	return result, nil
}

func (i *Importer) importEntry(ctx context.Context, userID, walletID int64, entry Entry, result *ImportResult) error {
	draft := model.Transaction{
		Date:   entry.Date,
		Amount: entry.Amount,
	}
	hash := draft.GenerateImportHash(entry.FitID, entry.AccountID)

	exists, err := i.store.HasImportHash(ctx, userID, hash)
	if err != nil {
		return fmt.Errorf("failed to check import hash: %w", err)
	}
	if exists {
		result.Skipped++
		return nil
	}

	if i.dryRun {
		result.Imported++
		return nil
	}

	if _, err := i.ledger.CreateTransaction(ctx, userID, ledger.TransactionInput{
		WalletID:    walletID,
		Type:        entry.Type,
		Amount:      entry.Amount,
		Description: entry.Description,
		Date:        entry.Date,
		ImportHash:  hash,
	}); err != nil {
		return err
	}

	result.Imported++
	return nil
}
