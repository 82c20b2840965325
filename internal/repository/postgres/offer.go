package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

type offerRepository struct {
	db *sql.DB
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *sql.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) ListByDate(ctx context.Context, date string) ([]*models.Offer, error) {
	query := `
		SELECT
			o.id, o.offer_date, o.offer_type, o.recipe_id, o.food_id,
			o.max_per_person, o.is_active,
			COALESCE(rec.name, f.name, '') AS label,
			COALESCE(f.unit, '') AS unit
		FROM offers o
		LEFT JOIN recipes rec ON rec.id = o.recipe_id
		LEFT JOIN foods f ON f.id = o.food_id
		WHERE o.offer_date = $1
		ORDER BY o.offer_type DESC, COALESCE(rec.name, f.name)`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var offers []*models.Offer
	for rows.Next() {
		offer := &models.Offer{}
		if err := rows.Scan(
			&offer.ID,
			&offer.Date,
			&offer.Type,
			&offer.RecipeID,
			&offer.FoodID,
			&offer.MaxPerPerson,
			&offer.IsActive,
			&offer.Label,
			&offer.Unit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		if offer.Type != models.OfferTypeSide {
			offer.Unit = ""
		}
		offers = append(offers, offer)
	}

	return offers, rows.Err()
}

func (r *offerRepository) GetByReference(ctx context.Context, date string, typ models.OfferType, refID int64) (*models.Offer, error) {
	refColumn := "recipe_id"
	if typ == models.OfferTypeSide {
		refColumn = "food_id"
	}

	query := fmt.Sprintf(`
		SELECT id, offer_date, offer_type, recipe_id, food_id, max_per_person, is_active
		FROM offers
		WHERE offer_date = $1 AND offer_type = $2 AND %s = $3`, refColumn)

	offer := &models.Offer{}
	err := r.db.QueryRowContext(ctx, query, date, typ, refID).Scan(
		&offer.ID,
		&offer.Date,
		&offer.Type,
		&offer.RecipeID,
		&offer.FoodID,
		&offer.MaxPerPerson,
		&offer.IsActive,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get offer by reference: %w", err)
	}

	return offer, nil
}

func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	query := `
		INSERT INTO offers (offer_date, offer_type, recipe_id, food_id, max_per_person, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		offer.Date,
		offer.Type,
		offer.RecipeID,
		offer.FoodID,
		offer.MaxPerPerson,
		offer.IsActive,
	).Scan(&offer.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	return offer, nil
}

func (r *offerRepository) Reactivate(ctx context.Context, id int64, maxPerPerson int) error {
	query := `UPDATE offers SET is_active = TRUE, max_per_person = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, maxPerPerson); err != nil {
		return fmt.Errorf("failed to reactivate offer: %w", err)
	}

	return nil
}

func (r *offerRepository) UpdateMax(ctx context.Context, id int64, maxPerPerson int) error {
	query := `UPDATE offers SET max_per_person = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, maxPerPerson); err != nil {
		return fmt.Errorf("failed to update offer cap: %w", err)
	}

	return nil
}

func (r *offerRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE offers SET is_active = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, active); err != nil {
		return fmt.Errorf("failed to set offer active flag: %w", err)
	}

	return nil
}
