package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tourflow"
	tfhttp "github.com/aretw0/tourflow/pkg/adapters/http"
	"github.com/aretw0/tourflow/pkg/adapters/rod"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/aretw0/tourflow/pkg/schema"
	"github.com/aretw0/tourflow/pkg/tracking"
)

// PlayOptions configures playback of a tour on a real browser page.
type PlayOptions struct {
	PageURL string
	Launch  rod.LaunchOptions

	// ServiceURL is the tour service base URL; it serves the tour by id and collects events.
	ServiceURL string
	// TourPath plays a local tour file instead of fetching Options.TourID.
	TourPath string
	Options  tourflow.Options

	// Fresh clears the tour from the page's completion record before starting.
	Fresh bool

	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
}

// RunPlay opens the page, mounts the tour on it and drives it from both the
// terminal and the tooltip buttons.
func RunPlay(ctx context.Context, opts PlayOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	b, err := rod.Launch(ctx, opts.PageURL, opts.Launch)
	if err != nil {
		return err
	}
	defer b.Close()

	surface := b.Surface()
	widgetOpts := []tourflow.Option{
		tourflow.WithLogger(opts.Logger),
		tourflow.WithStore(b.Storage()),
	}
	if opts.ServiceURL != "" {
		client := tfhttp.NewClient(opts.ServiceURL)
		widgetOpts = append(widgetOpts, tourflow.WithTourSource(client), tourflow.WithEventSink(client))
	}

	cfg := opts.Options
	if opts.TourPath != "" {
		tour, err := schema.ParseFile(opts.TourPath)
		if err != nil {
			return err
		}
		cfg.Tour = tour
		if cfg.TourID == "" {
			cfg.TourID = tour.ID
		}
	}

	w := tourflow.New(surface, widgetOpts...)
	defer func() {
		w.Destroy(context.WithoutCancel(ctx))
		w.Flush()
	}()

	if opts.Fresh {
		clearCompletion(ctx, b.Storage(), cfg.StorageKey, cfg.TourID, opts.Logger)
	}

	cfg.AutoStart = true
	if err := w.Init(ctx, cfg); err != nil {
		return fmt.Errorf("init tour: %w", err)
	}
	if !w.Ready() {
		printSystemMessage(opts.Out, "Tour '%s' was already completed on this page. Use --fresh to replay it.", cfg.TourID)
		return nil
	}

	redraw := func(ctx context.Context) {
		st := w.State()
		if !st.Active {
			return
		}
		step := w.Tour().Steps[st.Index]
		fmt.Fprintf(opts.Out, "[%d/%d] %s  (%s)\n", st.Index+1, st.Steps, step.Title, step.Target)
	}
	player := NewPlayer(w, opts.Out,
		WithRedraw(redraw),
		WithActions(surface.Actions, 200*time.Millisecond),
		WithPlayerLogger(opts.Logger),
	)
	return player.Run(ctx, Lines(ctx, opts.In))
}

// clearCompletion forgets that tourID was completed. Other tours in the record stay.
func clearCompletion(ctx context.Context, store ports.KeyValueStore, key, tourID string, logger *slog.Logger) {
	tracking.NewCompletions(store, key, logger).Clear(ctx, tourID)
}
