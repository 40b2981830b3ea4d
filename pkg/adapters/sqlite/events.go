package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/goccy/go-json"
)

// EventStore implements ports.EventStore on the tour_analytics table.
type EventStore struct {
	db *sql.DB
}

// Append stores an event.
func (s *EventStore) Append(ctx context.Context, e domain.RecordedEvent) error {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	var step sql.NullInt64
	if e.StepIndex != nil {
		step = sql.NullInt64{Int64: int64(*e.StepIndex), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tour_analytics (id, tour_id, event_type, step_index, user_identifier, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TourID, string(e.Kind), step, e.UserIdentifier, string(raw), e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListByTour returns the tour's events, newest first.
func (s *EventStore) ListByTour(ctx context.Context, tourID string) ([]domain.RecordedEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, step_index, user_identifier, metadata, created_at
		FROM tour_analytics
		WHERE tour_id = ?
		ORDER BY created_at DESC`, tourID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := []domain.RecordedEvent{}
	for rows.Next() {
		var (
			e       domain.RecordedEvent
			kind    string
			step    sql.NullInt64
			meta    string
			created int64
		)
		if err := rows.Scan(&e.ID, &kind, &step, &e.UserIdentifier, &meta, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.TourID = tourID
		e.Kind = domain.EventKind(kind)
		if step.Valid {
			idx := int(step.Int64)
			e.StepIndex = &idx
		}
		if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteByTour removes the tour's events.
func (s *EventStore) DeleteByTour(ctx context.Context, tourID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tour_analytics WHERE tour_id = ?`, tourID); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	return nil
}
