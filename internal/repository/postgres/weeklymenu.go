package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

type weeklyMenuRepository struct {
	db *sql.DB
}

// NewWeeklyMenuRepository creates a new weekly menu repository
func NewWeeklyMenuRepository(db *sql.DB) repository.WeeklyMenuRepository {
	return &weeklyMenuRepository{db: db}
}

func (r *weeklyMenuRepository) Get(ctx context.Context, weekStart string) (*models.WeeklyMenu, error) {
	query := `SELECT week_start, menu_json FROM weekly_menus WHERE week_start = $1`

	menu := &models.WeeklyMenu{}
	var menuJSON string
	err := r.db.QueryRowContext(ctx, query, weekStart).Scan(&menu.WeekStart, &menuJSON)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get weekly menu: %w", err)
	}

	if err := json.Unmarshal([]byte(menuJSON), &menu.Days); err != nil {
		return nil, fmt.Errorf("failed to decode weekly menu: %w", err)
	}

	return menu, nil
}

func (r *weeklyMenuRepository) Upsert(ctx context.Context, menu *models.WeeklyMenu) error {
	menuJSON, err := json.Marshal(menu.Days)
	if err != nil {
		return fmt.Errorf("failed to encode weekly menu: %w", err)
	}

	query := `
		INSERT INTO weekly_menus (week_start, menu_json)
		VALUES ($1, $2)
		ON CONFLICT (week_start) DO UPDATE SET menu_json = EXCLUDED.menu_json`

	if _, err := r.db.ExecContext(ctx, query, menu.WeekStart, string(menuJSON)); err != nil {
		return fmt.Errorf("failed to upsert weekly menu: %w", err)
	}

	return nil
}
