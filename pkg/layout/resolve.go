package layout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tourflow/pkg/ports"
)

// Resolve returns the first element of the surface matching descriptor.
// Absence is an expected outcome: surface errors and panics are logged and
// reported as not found, so a broken selector never aborts a session.
func Resolve(ctx context.Context, surface ports.HostSurface, descriptor string, logger *slog.Logger) (el ports.Element, found bool) {
	if surface == nil || descriptor == "" {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Warn("Target lookup panicked", "target", descriptor, "err", fmt.Sprint(r))
			}
			el, found = nil, false
		}
	}()

	el, err := surface.QueryOne(ctx, descriptor)
	if err != nil {
		if logger != nil {
			logger.Warn("Target lookup failed", "target", descriptor, "err", err)
		}
		return nil, false
	}
	if el == nil {
		return nil, false
	}
	return el, true
}
