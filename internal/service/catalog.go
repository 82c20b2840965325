package service

import (
	"context"
	"errors"
	"strings"

	"github.com/morningshift/breakfast/internal/models"
)

// ErrRecipeNameRequired is returned when a recipe rename has a blank name.
var ErrRecipeNameRequired = errors.New("recipe name is required")

// AddFood registers a side-dish food, reactivating a previously deactivated
// one with the same name. Blank names are ignored.
func (s *Service) AddFood(ctx context.Context, name, unit string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "unit"
	}
	return s.Foods.Upsert(ctx, name, unit)
}

// ListFoods lists foods, optionally including deactivated ones.
func (s *Service) ListFoods(ctx context.Context, includeInactive bool) ([]*models.Food, error) {
	return s.Foods.List(ctx, includeInactive)
}

// SetFoodActive soft-deletes or restores a food.
func (s *Service) SetFoodActive(ctx context.Context, id int64, active bool) error {
	return s.Foods.SetActive(ctx, id, active)
}

// AddRecipe registers a main-dish recipe, reactivating a previously
// deactivated one with the same name. Blank names are ignored.
func (s *Service) AddRecipe(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.Recipes.Upsert(ctx, name)
}

// ListRecipes lists recipes, optionally including deactivated ones.
func (s *Service) ListRecipes(ctx context.Context, includeInactive bool) ([]*models.Recipe, error) {
	return s.Recipes.List(ctx, includeInactive)
}

// GetRecipe returns the recipe by id, or nil when unknown.
func (s *Service) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	return s.Recipes.GetByID(ctx, id)
}

// RenameRecipe changes a recipe's display name.
func (s *Service) RenameRecipe(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrRecipeNameRequired
	}
	return s.Recipes.Rename(ctx, id, name)
}

// SetRecipeActive soft-deletes or restores a recipe.
func (s *Service) SetRecipeActive(ctx context.Context, id int64, active bool) error {
	return s.Recipes.SetActive(ctx, id, active)
}

// ListReservations returns the event's reservations with labeled lines for
// display, newest first.
func (s *Service) ListReservations(ctx context.Context, eventID int64) ([]*models.Reservation, error) {
	return s.Reservations.ListWithLines(ctx, eventID)
}
