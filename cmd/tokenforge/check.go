package main

import (
	"github.com/aretw0/tokenforge/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <address>",
	Short: "Show the ledger state of an account",
	Long:  `Reports activation, keys and, with --issuer, the trust line for the configured currency. Nothing is submitted.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.CheckOptions{Address: args[0]}
		opts.ConfigPath, _ = flags.GetString("config")
		opts.URL, _ = flags.GetString("url")
		opts.Simulate, _ = flags.GetBool("simulate")
		opts.Debug, _ = flags.GetBool("debug")
		opts.Currency, _ = flags.GetString("currency")
		opts.Issuer, _ = flags.GetString("issuer")
		opts.JSON, _ = flags.GetBool("json")
		return cli.Check(cmd.Context(), opts, streams())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("currency", "", "Currency of the trust line to look up")
	checkCmd.Flags().String("issuer", "", "Issuer of the trust line to look up")
	checkCmd.Flags().Bool("json", false, "Print the status as JSON")
}
