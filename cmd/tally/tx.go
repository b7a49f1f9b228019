package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tallyapp/tally/internal/cli"
	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/model"
	"github.com/tallyapp/tally/internal/service"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long: `Record, edit, delete, and list transactions. Every change keeps the
owning wallet's balance in sync.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(deleteTxCmd())
	cmd.AddCommand(listTxCmd())

	return cmd
}

// txFlags carries the shared flag set of tx add and tx edit.
type txFlags struct {
	wallet      string
	txType      string
	amount      string
	date        string
	description string
	category    string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.wallet, "wallet", "", "wallet name")
	cmd.Flags().StringVar(&f.txType, "type", "", "transaction type (income, expense)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount (e.g. 42.50)")
	cmd.Flags().StringVar(&f.date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.description, "desc", "", "description")
	cmd.Flags().StringVar(&f.category, "category", "", "category name")
}

// toInput resolves the flags into a transaction input. Required fields
// must all be present; edit pre-fills them from the stored row.
func (f *txFlags) toInput(ctx context.Context, store service.Storage, userID int64) (ledger.TransactionInput, error) {
	var input ledger.TransactionInput

	if f.wallet == "" {
		return input, fmt.Errorf("--wallet is required")
	}
	if f.txType == "" {
		return input, fmt.Errorf("--type is required")
	}
	if f.amount == "" {
		return input, fmt.Errorf("--amount is required")
	}

	txType, err := parseType(f.txType)
	if err != nil {
		return input, err
	}

	amount, err := model.ParseMoney(f.amount)
	if err != nil {
		return input, fmt.Errorf("invalid amount: %w", err)
	}

	wallet, err := resolveWallet(ctx, store, userID, f.wallet)
	if err != nil {
		return input, err
	}

	input = ledger.TransactionInput{
		WalletID:    wallet.ID,
		Type:        txType,
		Amount:      amount,
		Description: f.description,
	}

	if f.date != "" {
		if input.Date, err = parseDate(f.date); err != nil {
			return input, err
		}
	}

	if f.category != "" {
		category, err := resolveCategory(ctx, store, userID, f.category, txType)
		if err != nil {
			return input, err
		}
		input.CategoryID = &category.ID
	}

	return input, nil
}

func addTxCmd() *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := currentUser(ctx, store)
			if err != nil {
				return err
			}

			input, err := flags.toInput(ctx, store, user.ID)
			if err != nil {
				return err
			}
			if input.Date.IsZero() {
				input.Date = todayUTC()
			}

			svc := ledger.New(store)
			txn, err := svc.CreateTransaction(ctx, user.ID, input)
			if err != nil {
				return fmt.Errorf("failed to record transaction: %w", err)
			}

			wallet, err := store.GetWallet(ctx, txn.WalletID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Recorded %s of %s; %q balance is now %s",
				txn.Type, txn.Amount, wallet.Name, styledAmount(wallet.Balance))))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func editTxCmd() *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Long: `Edit a transaction. The original effect is reversed and the new one
applied, so balances stay consistent even when the transaction moves
between wallets. Unset flags keep the stored value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := currentUser(ctx, store)
			if err != nil {
				return err
			}

			svc := ledger.New(store)
			existing, err := svc.GetTransaction(ctx, user.ID, id)
			if err != nil {
				return err
			}

			// Unset flags fall back to the stored row.
			if flags.txType == "" {
				flags.txType = string(existing.Type)
			}
			if flags.amount == "" {
				flags.amount = existing.Amount.String()
			}
			if flags.wallet == "" {
				wallet, werr := store.GetWallet(ctx, existing.WalletID)
				if werr != nil {
					return werr
				}
				flags.wallet = wallet.Name
			}
			if flags.description == "" {
				flags.description = existing.Description
			}

			input, err := flags.toInput(ctx, store, user.ID)
			if err != nil {
				return err
			}
			if input.Date.IsZero() {
				input.Date = existing.Date
			}
			if input.CategoryID == nil && flags.category == "" {
				input.CategoryID = existing.CategoryID
			}

			updated, err := svc.UpdateTransaction(ctx, user.ID, id, input)
			if err != nil {
				return fmt.Errorf("failed to edit transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Updated transaction %d: %s of %s on %s",
				updated.ID, updated.Type, updated.Amount, updated.Date.Format("2006-01-02"))))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := currentUser(ctx, store)
			if err != nil {
				return err
			}

			svc := ledger.New(store)
			if err := svc.DeleteTransaction(ctx, user.ID, id); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %d and reversed its balance effect", id)))
			return nil
		},
	}
}

func listTxCmd() *cobra.Command {
	var (
		walletName   string
		categoryName string
		typeFilter   string
		startStr     string
		endStr       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `List transactions, newest first. All filters are optional and combine.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := currentUser(ctx, store)
			if err != nil {
				return err
			}

			var filter service.TransactionFilter

			if typeFilter != "" {
				t, terr := parseType(typeFilter)
				if terr != nil {
					return terr
				}
				filter.Type = &t
			}
			if walletName != "" {
				wallet, werr := resolveWallet(ctx, store, user.ID, walletName)
				if werr != nil {
					return werr
				}
				filter.WalletID = &wallet.ID
			}
			if categoryName != "" {
				categoryID, cerr := resolveCategoryAnyType(ctx, store, user.ID, categoryName)
				if cerr != nil {
					return cerr
				}
				filter.CategoryID = categoryID
			}
			if startStr != "" {
				start, derr := parseDate(startStr)
				if derr != nil {
					return derr
				}
				filter.StartDate = &start
			}
			if endStr != "" {
				end, derr := parseDate(endStr)
				if derr != nil {
					return derr
				}
				filter.EndDate = &end
			}

			svc := ledger.New(store)
			txns, err := svc.ListTransactions(ctx, user.ID, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if len(txns) == 0 {
				fmt.Println(cli.FormatInfo("No transactions match."))
				return nil
			}

			names, err := categoryNames(ctx, store, user.ID)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(txns))
			for i := range txns {
				txn := &txns[i]
				category := ""
				if txn.CategoryID != nil {
					category = names[*txn.CategoryID]
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", txn.ID),
					txn.Date.Format("2006-01-02"),
					string(txn.Type),
					styledAmount(txn.SignedEffect()),
					category,
					txn.Description,
				})
			}

			fmt.Println(cli.FormatTitle("Transactions"))
			fmt.Print(cli.RenderTable([]string{"ID", "DATE", "TYPE", "AMOUNT", "CATEGORY", "DESCRIPTION"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&walletName, "wallet", "", "filter by wallet name")
	cmd.Flags().StringVar(&categoryName, "category", "", "filter by category name")
	cmd.Flags().StringVar(&typeFilter, "type", "", "filter by type (income, expense)")
	cmd.Flags().StringVar(&startStr, "start", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "latest date (YYYY-MM-DD)")
	return cmd
}

// resolveCategoryAnyType finds a category id by name regardless of
// type; ambiguous names (one income, one expense) are rejected.
func resolveCategoryAnyType(ctx context.Context, store service.Storage, userID int64, name string) (*int64, error) {
	categories, err := store.GetCategoriesByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	var match *int64
	for i := range categories {
		if categories[i].Name == name {
			if match != nil {
				return nil, fmt.Errorf("category %q exists as both income and expense; use 'tally tx list --type' to disambiguate", name)
			}
			match = &categories[i].ID
		}
	}
	if match == nil {
		return nil, fmt.Errorf("category %q not found", name)
	}
	return match, nil
}

func categoryNames(ctx context.Context, store service.Storage, userID int64) (map[int64]string, error) {
	categories, err := store.GetCategoriesByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
