/*
Package tourflow plays guided product tours on top of a page it does not own.

A tour is an ordered list of steps. Each step points at an element of the host
page, explains it, and asks the tooltip to sit on one side of it. Tourflow
drives the playback: it finds the element, scrolls to it, draws a spotlight,
positions the tooltip with a deterministic fallback chain and reports
lifecycle events to an analytics sink.

# Concept

The page is reached only through ports.HostSurface. The browser adapter
(pkg/adapters/rod) drives a real page, while the memory adapter scripts one
for previews and tests. Tours come from inline data or a ports.TourSource,
events go to a ports.EventSink, and completion is remembered in a
ports.KeyValueStore.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/tourflow"
		"github.com/aretw0/tourflow/pkg/adapters/memory"
		"github.com/aretw0/tourflow/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		surface := memory.NewSurface(
			memory.WithElement("#signup", domain.Rect{Top: 120, Left: 40, Width: 200, Height: 48}),
		)

		w := tourflow.New(surface, tourflow.WithStore(memory.NewStore()))

		opts := tourflow.DefaultOptions()
		opts.Tour = &domain.Tour{
			ID: "welcome",
			Steps: []domain.Step{
				{Title: "Sign up", Content: "Start here.", Target: "#signup"},
			},
		}
		opts.OnComplete = func() { log.Println("done") }

		if err := w.Init(ctx, opts); err != nil {
			log.Fatal(err)
		}
		w.Start(ctx)
		w.Next(ctx)
	}

Embed configuration coming from a page snippet can be decoded with DecodeOptions,
which accepts the same keys a script tag would carry (tourId, tourData, autoStart,
storageKey, overlay, highlightPadding, scrollBehavior, placement).
*/
package tourflow
