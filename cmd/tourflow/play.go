package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tourflow/internal/cli"
	"github.com/aretw0/tourflow/pkg/adapters/rod"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <page-url>",
	Short: "Play a tour on a real browser page",
	Long: `Opens the page in Chrome, mounts the tour overlay on it and drives it from
both the terminal and the tooltip buttons.

The tour comes from the tour service (--service with --tour-id) or from a
local file (--file). Completion is recorded in the page's localStorage.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		opts, err := embedOptions(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		tourID, _ := cmd.Flags().GetString("tour-id")
		if tourID != "" {
			opts.TourID = tourID
		}

		service, _ := cmd.Flags().GetString("service")
		tourFile, _ := cmd.Flags().GetString("file")
		fresh, _ := cmd.Flags().GetBool("fresh")
		controlURL, _ := cmd.Flags().GetString("control-url")
		bin, _ := cmd.Flags().GetString("bin")
		headless, _ := cmd.Flags().GetBool("headless")
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")

		if tourFile == "" && (service == "" || opts.TourID == "") {
			fmt.Println("Error: either --file or both --service and --tour-id are required.")
			os.Exit(1)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err = cli.RunPlay(ctx, cli.PlayOptions{
			PageURL: args[0],
			Launch: rod.LaunchOptions{
				ControlURL: controlURL,
				Bin:        bin,
				Headless:   headless,
				Width:      width,
				Height:     height,
			},
			ServiceURL: service,
			TourPath:   tourFile,
			Options:    opts,
			Fresh:      fresh,
			Logger:     logger,
			In:         os.Stdin,
			Out:        os.Stdout,
		})
		if err != nil && ctx.Signal() == nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("service", "", "Tour service base URL (serves tours and collects events)")
	playCmd.Flags().String("tour-id", "", "Id of the tour to fetch from the service")
	playCmd.Flags().StringP("file", "f", "", "Play a local tour file instead of fetching one")
	playCmd.Flags().String("control-url", "", "DevTools websocket URL of a running browser")
	playCmd.Flags().String("bin", "", "Browser executable to launch")
	playCmd.Flags().Bool("headless", false, "Launch the browser without a window")
	playCmd.Flags().Int("width", 1280, "Window width")
	playCmd.Flags().Int("height", 800, "Window height")
	addEmbedFlags(playCmd)
}
