package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

type recipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *sql.DB) repository.RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Upsert(ctx context.Context, name string) error {
	query := `
		INSERT INTO recipes (name, is_active)
		VALUES ($1, TRUE)
		ON CONFLICT (name) DO UPDATE SET is_active = TRUE`

	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("failed to upsert recipe: %w", err)
	}

	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	query := `SELECT id, name, is_active FROM recipes WHERE id = $1`

	recipe := &models.Recipe{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&recipe.ID, &recipe.Name, &recipe.IsActive)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, includeInactive bool) ([]*models.Recipe, error) {
	query := `
		SELECT id, name, is_active
		FROM recipes`
	if !includeInactive {
		query += `
		WHERE is_active = TRUE`
	}
	query += `
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe := &models.Recipe{}
		if err := rows.Scan(&recipe.ID, &recipe.Name, &recipe.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

func (r *recipeRepository) Rename(ctx context.Context, id int64, name string) error {
	query := `UPDATE recipes SET name = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to rename recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("recipe with ID %d not found", id)
	}

	return nil
}

func (r *recipeRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE recipes SET is_active = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, active); err != nil {
		return fmt.Errorf("failed to set recipe active flag: %w", err)
	}

	return nil
}
