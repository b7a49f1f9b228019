package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyapp/tally/internal/cli"
	"github.com/tallyapp/tally/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reports",
		Long:  `Summaries, category breakdowns, and month-by-month analysis over a date range.`,
	}

	cmd.AddCommand(reportSummaryCmd())
	cmd.AddCommand(reportCategoriesCmd())
	cmd.AddCommand(reportMonthsCmd())

	return cmd
}

func addPeriodFlags(cmd *cobra.Command, startStr, endStr *string) {
	cmd.Flags().StringVar(startStr, "start", "", "period start (YYYY-MM-DD, default first of current month)")
	cmd.Flags().StringVar(endStr, "end", "", "period end (YYYY-MM-DD, default last of current month)")
}

func reportSummaryCmd() *cobra.Command {
	var startStr, endStr string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income, expenses, net, and wallet balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parsePeriod(startStr, endStr)
			if err != nil {
				return err
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

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Summary %s to %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"))))
			fmt.Printf("Income:   %s\n", styledAmount(summary.TotalIncome))
			fmt.Printf("Expenses: %s\n", styledAmount(summary.TotalExpense.Neg()))
			fmt.Printf("Net:      %s\n\n", styledAmount(summary.Net))

			if len(summary.Wallets) > 0 {
				rows := make([][]string, 0, len(summary.Wallets))
				for _, w := range summary.Wallets {
					rows = append(rows, []string{w.Name, styledAmount(w.Balance)})
				}
				fmt.Println(cli.SubtitleStyle.Render("Current wallet balances"))
				fmt.Print(cli.RenderTable([]string{"WALLET", "BALANCE"}, rows))
			}
			return nil
		},
	}

	addPeriodFlags(cmd, &startStr, &endStr)
	return cmd
}

func reportCategoriesCmd() *cobra.Command {
	var startStr, endStr string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Spending and income per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parsePeriod(startStr, endStr)
			if err != nil {
				return err
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
			analysis, err := engine.CategoryAnalysis(ctx, user.ID, start, end)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Categories %s to %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"))))

			if len(analysis.Expenses) == 0 && len(analysis.Income) == 0 {
				fmt.Println(cli.FormatInfo("No transactions in this period."))
				return nil
			}

			if len(analysis.Expenses) > 0 {
				rows := make([][]string, 0, len(analysis.Expenses))
				for _, ct := range analysis.Expenses {
					rows = append(rows, []string{
						ct.Category,
						fmt.Sprintf("%d", ct.Count),
						styledAmount(ct.Total.Neg()),
					})
				}
				fmt.Println(cli.SubtitleStyle.Render("Expenses"))
				fmt.Print(cli.RenderTable([]string{"CATEGORY", "COUNT", "TOTAL"}, rows))
				fmt.Println()
			}

			if len(analysis.Income) > 0 {
				rows := make([][]string, 0, len(analysis.Income))
				for _, ct := range analysis.Income {
					rows = append(rows, []string{
						ct.Category,
						fmt.Sprintf("%d", ct.Count),
						styledAmount(ct.Total),
					})
				}
				fmt.Println(cli.SubtitleStyle.Render("Income"))
				fmt.Print(cli.RenderTable([]string{"CATEGORY", "COUNT", "TOTAL"}, rows))
			}
			return nil
		},
	}

	addPeriodFlags(cmd, &startStr, &endStr)
	return cmd
}

func reportMonthsCmd() *cobra.Command {
	var startStr, endStr string

	cmd := &cobra.Command{
		Use:   "months",
		Short: "Month-by-month income and expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			start, end, err := parsePeriod(startStr, endStr)
			if err != nil {
				return err
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
			analysis, err := engine.TimeAnalysis(ctx, user.ID, start, end)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Months %s to %s",
				start.Format("2006-01-02"), end.Format("2006-01-02"))))

			if len(analysis.Months) == 0 {
				fmt.Println(cli.FormatInfo("No transactions in this period."))
				return nil
			}

			rows := make([][]string, 0, len(analysis.Months))
			for _, mt := range analysis.Months {
				rows = append(rows, []string{
					mt.Month,
					styledAmount(mt.Income),
					styledAmount(mt.Expense.Neg()),
					styledAmount(mt.Net),
				})
			}
			fmt.Print(cli.RenderTable([]string{"MONTH", "INCOME", "EXPENSES", "NET"}, rows))
			return nil
		},
	}

	addPeriodFlags(cmd, &startStr, &endStr)
	return cmd
}
