package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tallyapp/tally/internal/cli"
	"github.com/tallyapp/tally/internal/config"
	"github.com/tallyapp/tally/internal/report"
	"github.com/tallyapp/tally/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports to external destinations",
	}

	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportSheetsCmd() *cobra.Command {
	var startStr, endStr string

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export a full report to Google Sheets",
		Long: `Build the summary, category, and monthly reports for the period and
write them to a Google Sheets spreadsheet. Credentials come from the
config file or TALLY_SHEETS_* environment variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parsePeriod(startStr, endStr)
			if err != nil {
				return err
			}

			sheetsConfig, err := config.LoadSheetsConfig()
			if err != nil {
				return fmt.Errorf("sheets configuration: %w", err)
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

			engine := report.NewEngine(store)
			summary, err := engine.Summary(ctx, user.ID, start, end)
			if err != nil {
				return err
			}
			categories, err := engine.CategoryAnalysis(ctx, user.ID, start, end)
			if err != nil {
				return err
			}
			months, err := engine.TimeAnalysis(ctx, user.ID, start, end)
			if err != nil {
				return err
			}
			transactions, err := store.GetTransactionsByDateRange(ctx, user.ID, start, end)
			if err != nil {
				return err
			}

			writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
			if err != nil {
				return err
			}

			export := &sheets.Export{
				Summary:      summary,
				Categories:   categories,
				Months:       months,
				Transactions: transactions,
			}
			if err := writer.Write(ctx, export); err != nil {
				return fmt.Errorf("failed to export report: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Exported report for %s to %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"))))
			return nil
		},
	}

	addPeriodFlags(cmd, &startStr, &endStr)
	return cmd
}
