package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tokenforge"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tokenforge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tokenforge version %s\n", strings.TrimSpace(tokenforge.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
