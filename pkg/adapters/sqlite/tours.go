package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
)

// Repository implements ports.TourRepository and ports.TourSource.
type Repository struct {
	db *sql.DB
}

// Get loads a tour with its steps in order.
func (r *Repository) Get(ctx context.Context, tourID string) (*domain.Tour, error) {
	tour := &domain.Tour{ID: tourID}
	var active int
	var created int64
	err := r.db.QueryRowContext(ctx,
		`SELECT name, is_active, created_at FROM tours WHERE id = ?`, tourID,
	).Scan(&tour.Name, &active, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTourNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tour %q: %w", tourID, err)
	}
	tour.Active = active != 0
	tour.CreatedAt = time.Unix(0, created).UTC()

	steps, err := r.steps(ctx, tourID)
	if err != nil {
		return nil, err
	}
	tour.Steps = steps
	return tour, nil
}

func (r *Repository) steps(ctx context.Context, tourID string) ([]domain.Step, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT step_id, title, content, target, placement
		FROM tour_steps
		WHERE tour_id = ?
		ORDER BY step_order ASC`, tourID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []domain.Step{}
	for rows.Next() {
		var s domain.Step
		var placement string
		if err := rows.Scan(&s.ID, &s.Title, &s.Content, &s.Target, &placement); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		s.Placement = domain.Placement(placement)
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// List returns every tour, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Tour, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM tours ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan tour: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tours := make([]*domain.Tour, 0, len(ids))
	for _, id := range ids {
		t, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, nil
}

// Save creates or replaces a tour. Steps are rewritten with step_order = slice index.
// A zero CreatedAt keeps the stored creation time, or stamps now for new tours.
func (r *Repository) Save(ctx context.Context, tour *domain.Tour) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	created := tour.CreatedAt.UnixNano()
	if tour.CreatedAt.IsZero() {
		created = time.Now().UnixNano()
	}
	active := 0
	if tour.Active {
		active = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tours (id, name, is_active, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_active = excluded.is_active,
			created_at = CASE WHEN ? THEN tours.created_at ELSE excluded.created_at END`,
		tour.ID, tour.Name, active, created, tour.CreatedAt.IsZero())
	if err != nil {
		return fmt.Errorf("save tour %q: %w", tour.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tour_steps WHERE tour_id = ?`, tour.ID); err != nil {
		return fmt.Errorf("clear steps: %w", err)
	}
	for i, s := range tour.Steps {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tour_steps (tour_id, step_order, step_id, title, content, target, placement)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tour.ID, i, s.ID, s.Title, s.Content, s.Target, string(s.Placement))
		if err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Delete removes a tour and its steps.
func (r *Repository) Delete(ctx context.Context, tourID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tours WHERE id = ?`, tourID); err != nil {
		return fmt.Errorf("delete tour %q: %w", tourID, err)
	}
	return nil
}

// FetchTour implements ports.TourSource: inactive tours are reported as not found.
func (r *Repository) FetchTour(ctx context.Context, tourID string) (*domain.Tour, error) {
	t, err := r.Get(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if !t.Active {
		return nil, domain.ErrTourNotFound
	}
	return t, nil
}
