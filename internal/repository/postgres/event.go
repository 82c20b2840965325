package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetByDate(ctx context.Context, date string) (*models.Event, error) {
	query := `
		SELECT id, event_date, menu_json, is_open, is_planned
		FROM events
		WHERE event_date = $1`

	event := &models.Event{}
	var menuJSON string
	err := r.db.QueryRowContext(ctx, query, date).Scan(
		&event.ID,
		&event.Date,
		&menuJSON,
		&event.Open,
		&event.Planned,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event by date: %w", err)
	}

	if err := json.Unmarshal([]byte(menuJSON), &event.Menu); err != nil {
		return nil, fmt.Errorf("failed to decode event menu: %w", err)
	}

	return event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	menuJSON, err := json.Marshal(event.Menu)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event menu: %w", err)
	}

	query := `
		INSERT INTO events (event_date, menu_json, is_open, is_planned)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err = r.db.QueryRowContext(ctx, query,
		event.Date,
		string(menuJSON),
		event.Open,
		event.Planned,
	).Scan(&event.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

func (r *eventRepository) UpdateMenu(ctx context.Context, date string, menu []string) error {
	menuJSON, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("failed to encode event menu: %w", err)
	}

	query := `UPDATE events SET menu_json = $2 WHERE event_date = $1`

	if _, err := r.db.ExecContext(ctx, query, date, string(menuJSON)); err != nil {
		return fmt.Errorf("failed to update event menu: %w", err)
	}

	return nil
}

func (r *eventRepository) ToggleOpen(ctx context.Context, id int64) error {
	query := `UPDATE events SET is_open = NOT is_open WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to toggle event open flag: %w", err)
	}

	return nil
}

func (r *eventRepository) TogglePlanned(ctx context.Context, id int64) error {
	query := `UPDATE events SET is_planned = NOT is_planned WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to toggle event planned flag: %w", err)
	}

	return nil
}

func (r *eventRepository) SetPlanned(ctx context.Context, id int64, planned bool) error {
	query := `UPDATE events SET is_planned = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, planned); err != nil {
		return fmt.Errorf("failed to set event planned flag: %w", err)
	}

	return nil
}
