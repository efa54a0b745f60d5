package main

import (
	"github.com/aretw0/tokenforge/internal/cli"
	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new keypair and print its address and seed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var opts cli.WalletOptions
		opts.ConfigPath, _ = flags.GetString("config")
		opts.URL, _ = flags.GetString("url")
		opts.Simulate, _ = flags.GetBool("simulate")
		return cli.NewWallet(cmd.Context(), opts, streams())
	},
}

func init() {
	walletCmd.AddCommand(walletNewCmd)
	rootCmd.AddCommand(walletCmd)
}
