package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *sql.DB) repository.ShiftRepository {
	return &shiftRepository{db: db}
}

// SetWorkingAgents replaces the roster for the date inside one transaction so
// a concurrent reader never observes a half-deleted set.
func (r *shiftRepository) SetWorkingAgents(ctx context.Context, date string, agentIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shifts WHERE shift_date = $1`, date); err != nil {
		return fmt.Errorf("failed to clear shifts: %w", err)
	}

	for _, agentID := range agentIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO shifts (shift_date, agent_id)
			VALUES ($1, $2)
			ON CONFLICT (shift_date, agent_id) DO NOTHING`,
			date, agentID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert shift: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shifts: %w", err)
	}

	return nil
}

func (r *shiftRepository) ListWorkingAgentIDs(ctx context.Context, date string) (map[int64]bool, error) {
	query := `SELECT agent_id FROM shifts WHERE shift_date = $1`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

func (r *shiftRepository) ListWorkingAgents(ctx context.Context, date string) ([]*models.Agent, error) {
	query := `
		SELECT a.id, a.name, a.phone, a.whatsapp_optin, a.is_active, a.created_at
		FROM shifts s
		JOIN agents a ON a.id = s.agent_id
		WHERE s.shift_date = $1
		  AND a.is_active = TRUE
		ORDER BY LOWER(a.name)`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query working agents: %w", err)
	}
	defer rows.Close()

	var agents []*models.Agent
	for rows.Next() {
		agent := &models.Agent{}
		if err := rows.Scan(
			&agent.ID,
			&agent.Name,
			&agent.Phone,
			&agent.WhatsAppOptIn,
			&agent.IsActive,
			&agent.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan working agent: %w", err)
		}
		agents = append(agents, agent)
	}

	return agents, rows.Err()
}
