package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/tokenforge"
	"github.com/aretw0/tokenforge/internal/cli"
	"github.com/aretw0/tokenforge/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "tokenforge",
	Short: "tokenforge provisions issued tokens on the XRP Ledger",
	Long: `tokenforge creates an issued token end to end: it checks both accounts, applies
issuer flags, opens the receiver's trust line, issues the supply and can black-hole the
issuer so the supply is fixed forever. Every step is skipped when the ledger already
shows its outcome, so a run can be repeated safely.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := cli.NewSignalContext(context.Background())
	defer ctx.Cancel()

	err := rootCmd.ExecuteContext(ctx)
	if err = cli.HandleExecutionError(os.Stdout, err, ctx.Signal()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func streams() cli.Streams {
	return cli.Streams{In: os.Stdin, Out: os.Stdout}
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func banner() {
	if interactive() {
		tui.PrintBanner(os.Stdout, tokenforge.Version)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("url", "", "JSON-RPC URL of the ledger node (overrides config)")
	rootCmd.PersistentFlags().Bool("simulate", false, "Use an in-memory ledger instead of a network node")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}
