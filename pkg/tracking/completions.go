package tracking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
)

// DefaultStorageKey is where completed tour ids are kept unless configured otherwise.
const DefaultStorageKey = "tourflow_completed"

// Completions is the persisted set of completed tour ids.
// Membership is exact: "t1" does not match a record holding "t10".
type Completions struct {
	store  ports.KeyValueStore
	key    string
	logger *slog.Logger
}

// NewCompletions creates a completion record under key.
func NewCompletions(store ports.KeyValueStore, key string, logger *slog.Logger) *Completions {
	if key == "" {
		key = DefaultStorageKey
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Completions{store: store, key: key, logger: logger}
}

// Key returns the storage key.
func (c *Completions) Key() string { return c.key }

// List returns the completed ids in insertion order. Read failures yield an empty list.
func (c *Completions) List(ctx context.Context) []string {
	if c.store == nil {
		return nil
	}
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			c.logger.Warn("Failed to read completion record", "key", c.key, "err", err)
		}
		return nil
	}
	return split(raw)
}

// IsCompleted reports whether tourID is in the record.
func (c *Completions) IsCompleted(ctx context.Context, tourID string) bool {
	if tourID == "" {
		return false
	}
	for _, id := range c.List(ctx) {
		if id == tourID {
			return true
		}
	}
	return false
}

// MarkCompleted adds tourID to the record. Marking twice keeps a single entry.
func (c *Completions) MarkCompleted(ctx context.Context, tourID string) {
	if tourID == "" || c.store == nil {
		return
	}
	ids := c.List(ctx)
	for _, id := range ids {
		if id == tourID {
			return
		}
	}
	ids = append(ids, tourID)
	if err := c.store.Set(ctx, c.key, strings.Join(ids, ",")); err != nil {
		c.logger.Warn("Failed to persist completion", "tour_id", tourID, "err", err)
	}
}

// Clear removes tourID from the record, deleting the key once it is empty.
func (c *Completions) Clear(ctx context.Context, tourID string) {
	if c.store == nil {
		return
	}
	ids := c.List(ctx)
	kept := ids[:0]
	for _, id := range ids {
		if id != tourID {
			kept = append(kept, id)
		}
	}

	var err error
	if len(kept) == 0 {
		err = c.store.Delete(ctx, c.key)
	} else {
		err = c.store.Set(ctx, c.key, strings.Join(kept, ","))
	}
	if err != nil {
		c.logger.Warn("Failed to clear completion", "tour_id", tourID, "err", err)
	}
}

func split(raw string) []string {
	var out []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
