package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

type foodRepository struct {
	db *sql.DB
}

// NewFoodRepository creates a new food repository
func NewFoodRepository(db *sql.DB) repository.FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) Upsert(ctx context.Context, name, unit string) error {
	query := `
		INSERT INTO foods (name, unit, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (name) DO UPDATE SET is_active = TRUE`

	if _, err := r.db.ExecContext(ctx, query, name, unit); err != nil {
		return fmt.Errorf("failed to upsert food: %w", err)
	}

	return nil
}

func (r *foodRepository) List(ctx context.Context, includeInactive bool) ([]*models.Food, error) {
	query := `
		SELECT id, name, unit, is_active
		FROM foods`
	if !includeInactive {
		query += `
		WHERE is_active = TRUE`
	}
	query += `
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods: %w", err)
	}
	defer rows.Close()

	var foods []*models.Food
	for rows.Next() {
		food := &models.Food{}
		if err := rows.Scan(&food.ID, &food.Name, &food.Unit, &food.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, food)
	}

	return foods, rows.Err()
}

func (r *foodRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE foods SET is_active = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, active); err != nil {
		return fmt.Errorf("failed to set food active flag: %w", err)
	}

	return nil
}
