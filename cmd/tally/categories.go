package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyapp/tally/internal/cli"
	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long:  `List, add, rename, and delete the typed categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var filter *model.TransactionType
			if typeFilter != "" {
				t, err := parseType(typeFilter)
				if err != nil {
					return err
				}
				filter = &t
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

			categories, err := store.GetCategoriesByUser(ctx, user.ID, filter)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.FormatInfo("No categories found. Use 'tally categories add' to create one."))
				return nil
			}

			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				rows = append(rows, []string{
					fmt.Sprintf("%d", c.ID),
					c.Name,
					string(c.Type),
				})
			}

			fmt.Println(cli.FormatTitle("Categories"))
			fmt.Print(cli.RenderTable([]string{"ID", "NAME", "TYPE"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFilter, "type", "", "filter by type (income, expense)")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <income|expense>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			categoryType, err := parseType(args[1])
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

			svc := ledger.New(store)
			category, err := svc.CreateCategory(ctx, user.ID, args[0], categoryType)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %s category %q", category.Type, category.Name)))
			return nil
		},
	}
}

func renameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <income|expense> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			categoryType, err := parseType(args[1])
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

			category, err := resolveCategory(ctx, store, user.ID, args[0], categoryType)
			if err != nil {
				return err
			}

			svc := ledger.New(store)
			if err := svc.RenameCategory(ctx, user.ID, category.ID, args[2]); err != nil {
				return fmt.Errorf("failed to rename category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Renamed category %q to %q", args[0], args[2])))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name> <income|expense>",
		Short: "Delete a category",
		Long:  `Delete a category. Its transactions survive uncategorized; wallet balances are unchanged.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			categoryType, err := parseType(args[1])
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

			category, err := resolveCategory(ctx, store, user.ID, args[0], categoryType)
			if err != nil {
				return err
			}

			svc := ledger.New(store)
			if err := svc.DeleteCategory(ctx, user.ID, category.ID); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %q; its transactions are now uncategorized", args[0])))
			return nil
		},
	}
}
