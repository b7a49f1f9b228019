package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tallyapp/tally/internal/cli"
	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from bank statements",
	}

	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importOFXCmd() *cobra.Command {
	var (
		walletName string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "ofx <file>",
		Short: "Import an OFX/QFX statement into a wallet",
		Long: `Parse an OFX or QFX statement and record its lines as transactions.
Credits become income, debits become expense. Lines already imported
are skipped, so overlapping statements are safe to re-import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if walletName == "" {
				return fmt.Errorf("--wallet is required")
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer func() { _ = file.Close() }()

			parser := ofx.NewParser()
			entries, err := parser.ParseFile(ctx, file)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(cli.FormatInfo("Statement contains no transactions."))
				return nil
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

			wallet, err := resolveWallet(ctx, store, user.ID, walletName)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(entries),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan][bold]Importing transactions...[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)

			opts := []ofx.ImporterOption{
				ofx.WithProgress(func() { _ = bar.Add(1) }),
			}
			if dryRun {
				opts = append(opts, ofx.WithDryRun())
			}

			importer := ofx.NewImporter(ledger.New(store), store, opts...)
			result, err := importer.Import(ctx, user.ID, wallet.ID, entries)
			if err != nil {
				return err
			}
			fmt.Println()

			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"%s %d transactions into %q (%d duplicates skipped, %d failed)",
				verb, result.Imported, wallet.Name, result.Skipped, result.Failed)))
			return nil
		},
	}

	cmd.Flags().StringVar(&walletName, "wallet", "", "target wallet name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without writing")
	return cmd
}
