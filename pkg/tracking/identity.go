package tracking

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/google/uuid"
)

// UserIDKey is the storage key of the pseudonymous user identifier.
const UserIDKey = "tourflow_user_id"

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Identity resolves the pseudonymous user identifier attached to events.
type Identity struct {
	store  ports.KeyValueStore
	logger *slog.Logger

	mu     sync.Mutex
	cached string
}

// NewIdentity creates an Identity backed by store. A nil store keeps the id in memory only.
func NewIdentity(store ports.KeyValueStore, logger *slog.Logger) *Identity {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Identity{store: store, logger: logger}
}

// UserID returns the persisted identifier, generating and storing one on first use.
func (i *Identity) UserID(ctx context.Context) string {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cached != "" {
		return i.cached
	}

	if i.store != nil {
		id, err := i.store.Get(ctx, UserIDKey)
		switch {
		case err == nil && id != "":
			i.cached = id
			return id
		case err != nil && !errors.Is(err, domain.ErrKeyNotFound):
			i.logger.Warn("Failed to read user id", "err", err)
		}
	}

	id := NewUserID(time.Now())
	if i.store != nil {
		if err := i.store.Set(ctx, UserIDKey, id); err != nil {
			i.logger.Warn("Failed to persist user id", "err", err)
		}
	}
	i.cached = id
	return id
}

// NewUserID builds "user_" + 9 random base36 characters + the unix time in milliseconds.
func NewUserID(now time.Time) string {
	entropy := uuid.New()
	buf := make([]byte, 0, 9)
	for _, b := range entropy[:9] {
		buf = append(buf, base36[int(b)%len(base36)])
	}
	return "user_" + string(buf) + strconv.FormatInt(now.UnixMilli(), 10)
}
