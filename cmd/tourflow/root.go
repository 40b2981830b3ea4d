package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tourflow/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tourflow",
	Short: "Tourflow plays guided product tours over a web page",
	Long: `Tourflow serves tour definitions and analytics over HTTP, plays tours on a
real browser page and previews them in the terminal.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("db", defaultDBPath, "SQLite database holding tours and analytics")
	rootCmd.PersistentFlags().String("tours", "", "Directory of tour files to serve instead of the database (read-only)")
}

// newLogger builds the stderr logger from the persistent flags.
func newLogger(cmd *cobra.Command) *slog.Logger {
	levelName, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("log-json")

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v, using info\n", err)
		level = slog.LevelInfo
	}
	return logging.NewWriter(os.Stderr, level, jsonLogs)
}
