package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tourflow/internal/presentation/graph"
	"github.com/aretw0/tourflow/pkg/analytics"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/schema"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <tour-id | tour-file>",
	Short: "Export the tour as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart of the tour's steps. With --stats, edges are
labelled with how many times each step was viewed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withStats, _ := cmd.Flags().GetBool("stats")

		b, err := openBackends(cmd)
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			os.Exit(1)
		}
		defer b.Close()

		var tour *domain.Tour
		if _, statErr := os.Stat(args[0]); statErr == nil {
			tour, err = schema.ParseFile(args[0])
		} else {
			tour, err = b.Tours.Get(cmd.Context(), args[0])
		}
		if err != nil {
			fmt.Printf("Error loading tour: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if withStats {
			events, err := b.Events.ListByTour(cmd.Context(), tour.ID)
			if err != nil {
				fmt.Printf("Error loading analytics: %v\n", err)
				os.Exit(1)
			}
			overlay = &graph.Overlay{Views: make(map[int]int), Current: -1}
			for _, s := range analytics.Summarize(tour.ID, events).Steps {
				overlay.Views[s.Index] = s.Views
			}
		}

		fmt.Print(graph.GenerateMermaid(tour, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("stats", false, "Label edges with step view counts")
}
