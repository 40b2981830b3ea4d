package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tourflow/pkg/analytics"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <tour-id>",
	Short: "Show playback analytics of a tour",
	Long:  `Summarizes the recorded events of a tour: views, completions, skips, per-step views and drop-off.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		b, err := openBackends(cmd)
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			os.Exit(1)
		}
		defer b.Close()

		events, err := b.Events.ListByTour(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading analytics: %v\n", err)
			os.Exit(1)
		}
		summary := analytics.Summarize(args[0], events)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				fmt.Printf("Error encoding summary: %v\n", err)
				os.Exit(1)
			}
			return
		}

		fmt.Printf("Tour %s\n", summary.TourID)
		fmt.Printf("  views      %d\n", summary.Views)
		fmt.Printf("  completes  %d (%.1f%%)\n", summary.Completes, summary.CompletionRate)
		fmt.Printf("  skips      %d\n", summary.Skips)
		if len(summary.Steps) == 0 {
			return
		}

		drop := summary.DropOff()
		fmt.Println()
		for i, s := range summary.Steps {
			line := fmt.Sprintf("  %-10s %6d views", s.Label, s.Views)
			if i > 0 {
				line += fmt.Sprintf("  -%.1f%%", drop[i-1])
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Bool("json", false, "Print the summary as JSON")
}
