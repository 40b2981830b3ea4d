package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tourflow/internal/cli"
	"github.com/aretw0/tourflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <tour-file>",
	Short: "Preview a tour in the terminal",
	Long: `Plays a tour file against a scripted page layout and draws each step in the
terminal: the tooltip card, a minimap of the viewport and where the tooltip lands.

The layout file lists the viewport size and the bounds of each target selector.
Targets missing from the layout fall back to a centered tooltip.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		layoutPath, _ := cmd.Flags().GetString("layout")
		watchMode, _ := cmd.Flags().GetBool("watch")
		fresh, _ := cmd.Flags().GetBool("fresh")
		plain, _ := cmd.Flags().GetBool("plain")

		opts, err := embedOptions(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		store, closeStore := openStateStore(cmd)
		defer closeStore()

		width := cli.Width(os.Stdout)
		render := tui.PlainRenderer
		if !plain && cli.IsInteractive(os.Stdout) {
			render = tui.NewRenderer(min(width-6, 56))
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.RunPreview(ctx, cli.PreviewOptions{
			TourPath:   args[0],
			LayoutPath: layoutPath,
			Watch:      watchMode,
			Fresh:      fresh,
			Options:    opts,
			Store:      store,
			Logger:     logger,
			In:         os.Stdin,
			Out:        os.Stdout,
			Width:      width,
			Render:     render,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("layout", "l", "", "YAML page layout (viewport and target bounds)")
	previewCmd.Flags().BoolP("watch", "w", false, "Reload the tour file when it changes")
	previewCmd.Flags().Bool("plain", false, "Print step content without Markdown rendering")
	previewCmd.Flags().String("state", "", "Directory where completion records are kept between runs")
	previewCmd.Flags().String("redis", "", "Redis address where completion records are kept")
	addEmbedFlags(previewCmd)
}
