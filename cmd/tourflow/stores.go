package main

import (
	"fmt"

	"github.com/aretw0/tourflow/internal/adapters/file"
	"github.com/aretw0/tourflow/pkg/adapters/loam"
	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/adapters/redis"
	"github.com/aretw0/tourflow/pkg/adapters/sqlite"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/spf13/cobra"
)

const (
	defaultDBPath   = ".tourflow/tourflow.db"
	defaultStateDir = ".tourflow/state"
)

// backends bundles the repositories selected by the persistent flags.
type backends struct {
	Tours  ports.TourRepository
	Events ports.EventStore
	close  func() error
}

func (b *backends) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// openBackends opens the SQLite database. With --tours, tours come from the
// file library and only analytics stay in the database.
func openBackends(cmd *cobra.Command) (*backends, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	toursDir, _ := cmd.Flags().GetString("tours")

	b := &backends{}
	if dbPath == "" {
		b.Tours = memory.NewRepository()
		b.Events = memory.NewEventStore()
	} else {
		var opts []sqlite.Option
		if toursDir != "" {
			opts = append(opts, sqlite.WithExternalTours())
		}
		store, err := sqlite.Open(dbPath, opts...)
		if err != nil {
			return nil, err
		}
		b.Tours = store.Tours()
		b.Events = store.Events()
		b.close = store.Close
	}

	if toursDir != "" {
		src, err := loam.Open(toursDir)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("open tour library: %w", err)
		}
		b.Tours = src
	}
	return b, nil
}

// openStateStore picks where completion records of local playback live:
// redis when an address is given, a state directory, or memory.
func openStateStore(cmd *cobra.Command) (ports.KeyValueStore, func() error) {
	redisAddr, _ := cmd.Flags().GetString("redis")
	stateDir, _ := cmd.Flags().GetString("state")

	switch {
	case redisAddr != "":
		s := redis.New(redisAddr, "", 0)
		return s, s.Close
	case stateDir != "":
		return file.New(stateDir), func() error { return nil }
	default:
		return memory.NewStore(), func() error { return nil }
	}
}
