package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

var toursCmd = &cobra.Command{
	Use:   "tours",
	Short: "Manage stored tours",
}

var toursListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tours",
	Run: func(cmd *cobra.Command, args []string) {
		pattern, _ := cmd.Flags().GetString("match")

		var matcher glob.Glob
		if pattern != "" {
			g, err := glob.Compile(pattern)
			if err != nil {
				fmt.Printf("Invalid --match pattern: %v\n", err)
				os.Exit(1)
			}
			matcher = g
		}

		b, err := openBackends(cmd)
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			os.Exit(1)
		}
		defer b.Close()

		tours, err := b.Tours.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing tours: %v\n", err)
			os.Exit(1)
		}
		for _, t := range tours {
			if matcher != nil && !matcher.Match(t.ID) {
				continue
			}
			state := "active"
			if !t.Active {
				state = "inactive"
			}
			fmt.Printf("%-36s %-8s %3d steps  %s\n", t.ID, state, t.Len(), strings.TrimSpace(t.Name))
		}
	},
}

var toursRemoveCmd = &cobra.Command{
	Use:     "rm <tour-id>...",
	Aliases: []string{"delete"},
	Short:   "Delete tours with their steps and analytics",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b, err := openBackends(cmd)
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			os.Exit(1)
		}
		defer b.Close()

		for _, id := range args {
			if err := b.Tours.Delete(cmd.Context(), id); err != nil {
				fmt.Printf("Error deleting %s: %v\n", id, err)
				os.Exit(1)
			}
			if err := b.Events.DeleteByTour(cmd.Context(), id); err != nil {
				fmt.Printf("Error deleting analytics of %s: %v\n", id, err)
				os.Exit(1)
			}
			fmt.Printf("Deleted %s\n", id)
		}
	},
}

func init() {
	rootCmd.AddCommand(toursCmd)
	toursCmd.AddCommand(toursListCmd, toursRemoveCmd)
	toursListCmd.Flags().String("match", "", "Only list tour ids matching this glob (e.g. 'onboarding-*')")
}
