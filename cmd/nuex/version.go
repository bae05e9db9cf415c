package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/nuex"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nuex",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nuex version %s\n", strings.TrimSpace(nuex.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
