package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/spf13/cobra"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List the issuer flags accepted by --set-flag and --clear-flag",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tALIAS\tDESCRIPTION")
		for _, f := range domain.AllFlags() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", f.Code(), f, f.Slug(), f.Description())
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(flagsCmd)
}
