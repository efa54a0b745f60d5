package main

import (
	"github.com/aretw0/tokenforge/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Provision an issued token",
	Long: `Runs the provisioning workflow: issuer and receiver checks, issuer flags, trust
line, issuance and optionally the black hole. Missing values are asked interactively
unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.RunOptions{Interactive: interactive()}
		opts.ConfigPath, _ = flags.GetString("config")
		opts.URL, _ = flags.GetString("url")
		opts.Simulate, _ = flags.GetBool("simulate")
		opts.Debug, _ = flags.GetBool("debug")
		opts.Yes, _ = flags.GetBool("yes")
		opts.BlackHole, _ = flags.GetBool("blackhole")
		opts.Currency, _ = flags.GetString("currency")
		opts.Amount, _ = flags.GetString("amount")
		opts.SetFlags, _ = flags.GetStringSlice("set-flag")
		opts.ClearFlags, _ = flags.GetStringSlice("clear-flag")
		opts.MetricsAddr, _ = flags.GetString("metrics-addr")
		opts.RedisAddr, _ = flags.GetString("redis-addr")
		opts.LogLevel, _ = flags.GetString("log-level")

		banner()
		return cli.Execute(cmd.Context(), opts, streams())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("yes", "y", false, "Accept the configured plan without prompting")
	runCmd.Flags().Bool("blackhole", false, "Black-hole the issuer after issuing (irreversible)")
	runCmd.Flags().String("currency", "", "Currency code to issue")
	runCmd.Flags().String("amount", "", "Amount to issue")
	runCmd.Flags().StringSlice("set-flag", nil, "Issuer flag to set (repeatable)")
	runCmd.Flags().StringSlice("clear-flag", nil, "Issuer flag to clear (repeatable)")
	runCmd.Flags().String("metrics-addr", "", "Serve /metrics and /healthz on this address")
	runCmd.Flags().String("redis-addr", "", "Redis address for cross-process account locks")
	runCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")

	// 'run' is the default command.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
