package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyapp/tally/internal/cli"
	"github.com/tallyapp/tally/internal/ledger"
	"github.com/tallyapp/tally/internal/model"
)

func walletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Manage wallets",
		Long:  `List, add, rename, and delete wallets. Each wallet tracks its own balance.`,
	}

	cmd.AddCommand(listWalletsCmd())
	cmd.AddCommand(addWalletCmd())
	cmd.AddCommand(renameWalletCmd())
	cmd.AddCommand(deleteWalletCmd())

	return cmd
}

func listWalletsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all wallets",
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

			wallets, err := store.GetWalletsByUser(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get wallets: %w", err)
			}

			if len(wallets) == 0 {
				fmt.Println(cli.FormatInfo("No wallets found. Use 'tally wallets add' to create one."))
				return nil
			}

			rows := make([][]string, 0, len(wallets))
			var total model.Money
			for _, w := range wallets {
				rows = append(rows, []string{
					fmt.Sprintf("%d", w.ID),
					w.Name,
					styledAmount(w.Balance),
				})
				total = total.Add(w.Balance)
			}

			fmt.Println(cli.FormatTitle("Wallets"))
			fmt.Print(cli.RenderTable([]string{"ID", "NAME", "BALANCE"}, rows))
			fmt.Printf("\nTotal: %s\n", styledAmount(total))
			return nil
		},
	}
}

func addWalletCmd() *cobra.Command {
	var initialBalance string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			initial := model.Cents(0)
			if initialBalance != "" {
				var err error
				if initial, err = model.ParseMoney(initialBalance); err != nil {
					return fmt.Errorf("invalid initial balance: %w", err)
				}
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
			wallet, err := svc.CreateWallet(ctx, user.ID, args[0], initial)
			if err != nil {
				return fmt.Errorf("failed to create wallet: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created wallet %q with balance %s", wallet.Name, wallet.Balance)))
			return nil
		},
	}

	cmd.Flags().StringVar(&initialBalance, "balance", "", "initial balance (e.g. 100.00)")
	return cmd
}

func renameWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			wallet, err := resolveWallet(ctx, store, user.ID, args[0])
			if err != nil {
				return err
			}

			svc := ledger.New(store)
			if err := svc.RenameWallet(ctx, user.ID, wallet.ID, args[1]); err != nil {
				return fmt.Errorf("failed to rename wallet: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Renamed wallet %q to %q", args[0], args[1])))
			return nil
		},
	}
}

func deleteWalletCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a wallet and all its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !force {
				return fmt.Errorf("deleting a wallet removes all its transactions; re-run with --force to confirm")
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

			wallet, err := resolveWallet(ctx, store, user.ID, args[0])
			if err != nil {
				return err
			}

			svc := ledger.New(store)
			if err := svc.DeleteWallet(ctx, user.ID, wallet.ID); err != nil {
				return fmt.Errorf("failed to delete wallet: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted wallet %q", args[0])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deletion")
	return cmd
}
