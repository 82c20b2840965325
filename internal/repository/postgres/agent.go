package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

type agentRepository struct {
	db *sql.DB
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *sql.DB) repository.AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *models.Agent) (*models.Agent, error) {
	query := `
		INSERT INTO agents (name, phone, whatsapp_optin, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	agent.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		agent.Name,
		agent.Phone,
		agent.WhatsAppOptIn,
		agent.IsActive,
		agent.CreatedAt,
	).Scan(&agent.ID, &agent.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return agent, nil
}

func (r *agentRepository) GetByID(ctx context.Context, id int64) (*models.Agent, error) {
	query := `
		SELECT id, name, phone, whatsapp_optin, is_active, created_at
		FROM agents
		WHERE id = $1`

	agent := &models.Agent{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Phone,
		&agent.WhatsAppOptIn,
		&agent.IsActive,
		&agent.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get agent by ID: %w", err)
	}

	return agent, nil
}

func (r *agentRepository) List(ctx context.Context, includeInactive bool) ([]*models.Agent, error) {
	query := `
		SELECT id, name, phone, whatsapp_optin, is_active, created_at
		FROM agents`
	if !includeInactive {
		query += `
		WHERE is_active = TRUE`
	}
	query += `
		ORDER BY LOWER(name)`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
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
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, agent)
	}

	return agents, rows.Err()
}

func (r *agentRepository) Update(ctx context.Context, agent *models.Agent) (*models.Agent, error) {
	query := `
		UPDATE agents
		SET name = $2, phone = $3, whatsapp_optin = $4, is_active = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		agent.ID,
		agent.Name,
		agent.Phone,
		agent.WhatsAppOptIn,
		agent.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("agent with ID %d not found", agent.ID)
	}

	return agent, nil
}

func (r *agentRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE agents SET is_active = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, active); err != nil {
		return fmt.Errorf("failed to set agent active flag: %w", err)
	}

	return nil
}

func (r *agentRepository) SetWhatsAppOptIn(ctx context.Context, id int64, optIn bool) error {
	query := `UPDATE agents SET whatsapp_optin = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, optIn); err != nil {
		return fmt.Errorf("failed to set agent whatsapp opt-in: %w", err)
	}

	return nil
}
