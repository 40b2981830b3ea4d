package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/tourflow"
	"github.com/aretw0/tourflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tourflow",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(os.Stdout)
		fmt.Printf("tourflow version %s\n", strings.TrimSpace(tourflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
