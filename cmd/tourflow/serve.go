package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/tourflow/internal/cli"
	tfhttp "github.com/aretw0/tourflow/pkg/adapters/http"
	"github.com/aretw0/tourflow/pkg/adapters/redis"
	"github.com/aretw0/tourflow/pkg/analytics"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tour service",
	Long: `Serves tours to the widget (GET /get-tour), collects playback events
(POST /track-event) and exposes the authoring and analytics API under /tours.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")

		b, err := openBackends(cmd)
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			os.Exit(1)
		}
		defer b.Close()

		opts := []tfhttp.Option{
			tfhttp.WithLogger(logger),
			tfhttp.WithMetrics(analytics.NewCollector()),
		}
		if redisAddr != "" {
			kv := redis.New(redisAddr, "", 0)
			defer kv.Close()
			opts = append(opts, tfhttp.WithLocker(redis.NewLocker(kv.Client(), "tourflow:")))
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           tfhttp.NewHandler(b.Tours, b.Events, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting tour service", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Server error", "err", err)
				os.Exit(1)
			}
		case <-ctx.Done():
			logger.Info("Start shutdown", "signal", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			logger.Info("Tour service stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address used to lock tours while they are edited")
}
