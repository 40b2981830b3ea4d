package tourflow_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/tourflow"
	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/dsl"
)

// ExampleNew plays an inline tour on a scripted page.
// The second target is not on the page, so its tooltip is centered.
func ExampleNew() {
	tour := dsl.New("welcome").
		Step("#header").Title("Header").Content("This is the header.").Bottom().
		Step("#missing").Title("Missing").Content("Nothing to point at.").
		MustBuild()

	page := memory.NewSurface(
		memory.WithElement("#header", domain.Rect{Top: 100, Left: 40, Width: 200, Height: 50}),
	)
	w := tourflow.New(page, tourflow.WithStore(memory.NewStore()))

	ctx := context.Background()
	if err := w.Init(ctx, tourflow.Options{Tour: tour, AutoStart: true}); err != nil {
		log.Fatal(err)
	}

	for w.State().Active {
		frame, _ := page.Frame()
		fmt.Printf("%s: %s (centered=%v, button=%s)\n",
			frame.Tooltip.Counter, frame.Tooltip.Title, frame.Position.Centered, frame.Tooltip.NextLabel)
		w.Next(ctx)
	}
	fmt.Println(w.State().Status)

	// Output:
	// 1 of 2: Header (centered=false, button=Next)
	// 2 of 2: Missing (centered=true, button=Done)
	// completed
}
