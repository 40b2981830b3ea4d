package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tourflow"
	"github.com/aretw0/tourflow/internal/presentation/tui"
	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/aretw0/tourflow/pkg/schema"
)

// PreviewOptions configures a terminal preview of a tour file.
type PreviewOptions struct {
	TourPath   string
	LayoutPath string
	Watch      bool
	// Fresh clears the tour from the completion record before each playback.
	Fresh bool

	// Options are the embed options; the tour itself always comes from TourPath.
	Options tourflow.Options

	Store  ports.KeyValueStore
	Sink   ports.EventSink
	Logger *slog.Logger

	In     io.Reader
	Out    io.Writer
	Width  int
	Render func(string) (string, error)
}

// RunPreview plays a tour file against a scripted page in the terminal.
// With Watch, edits to the tour file reload it and resume at the same step.
func RunPreview(ctx context.Context, opts PreviewOptions) error {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Store == nil {
		opts.Store = memory.NewStore()
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}

	layout, err := LoadLayout(opts.LayoutPath)
	if err != nil {
		return err
	}

	lines := Lines(ctx, opts.In)
	index := 0
	for {
		iterCtx, cancel := context.WithCancel(ctx)
		changed := make(chan struct{}, 1)
		if opts.Watch {
			err := WatchFile(iterCtx, opts.TourPath, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
				cancel()
			})
			if err != nil {
				cancel()
				return err
			}
		}

		last, err := previewOnce(iterCtx, opts, layout, lines, index)
		cancel()
		index = last

		select {
		case <-changed:
			printSystemMessage(opts.Out, "Change detected in '%s', reloading.", opts.TourPath)
			continue
		default:
		}
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

// previewOnce runs one playback of the tour file and returns the last shown index.
func previewOnce(ctx context.Context, opts PreviewOptions, layout PageLayout, lines <-chan string, index int) (int, error) {
	tour, err := schema.ParseFile(opts.TourPath)
	if err != nil {
		if !opts.Watch {
			return index, err
		}
		fmt.Fprintf(opts.Out, "invalid tour: %v\n", err)
		for _, issue := range schema.ValidationErrors(err) {
			fmt.Fprintf(opts.Out, "  - %v\n", issue)
		}
		<-ctx.Done()
		return index, nil
	}

	if opts.Fresh {
		clearCompletion(ctx, opts.Store, opts.Options.StorageKey, tour.ID, opts.Logger)
	}

	surface := layout.Surface()
	w := tourflow.New(surface,
		tourflow.WithLogger(opts.Logger),
		tourflow.WithStore(opts.Store),
		tourflow.WithEventSink(opts.Sink),
	)
	defer w.Destroy(context.WithoutCancel(ctx))

	cfg := opts.Options
	cfg.TourID = tour.ID
	cfg.Tour = tour
	cfg.AutoStart = false
	if err := w.Init(ctx, cfg); err != nil {
		return index, err
	}
	if !w.Ready() {
		printSystemMessage(opts.Out, "Tour '%s' was already completed. Use 'tourflow preview --fresh' to replay it.", tour.ID)
		return index, nil
	}

	if index > 0 && index < tour.Len() {
		w.GoToStep(ctx, index)
	} else {
		w.Start(ctx)
	}

	redraw := func(ctx context.Context) {
		drawFrame(ctx, opts, surface)
	}
	err = NewPlayer(w, opts.Out, WithRedraw(redraw), WithPlayerLogger(opts.Logger)).Run(ctx, lines)
	last := w.State().Index
	if ctx.Err() != nil {
		return last, nil
	}
	return last, err
}

func drawFrame(ctx context.Context, opts PreviewOptions, surface *memory.Surface) {
	frame, ok := surface.Frame()
	if !ok {
		fmt.Fprintln(opts.Out, "(no step is showing)")
		return
	}
	vp, _ := surface.Viewport(ctx)
	tip, _ := surface.TooltipBounds(ctx)

	cardWidth := min(opts.Width-2, 60)
	fmt.Fprintln(opts.Out, tui.Card(frame.Tooltip, cardWidth, opts.Render))
	fmt.Fprintln(opts.Out, tui.Minimap(vp, frame, tip, min(opts.Width-2, 64), 16))
	fmt.Fprintln(opts.Out, tui.Describe(frame))
}
