package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *reservationRepository) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	query := `
		INSERT INTO reservations (event_id, name, bring, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	res.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		res.EventID,
		res.Name,
		res.Bring,
		res.CreatedAt,
	).Scan(&res.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return res, nil
}

func (r *reservationRepository) ExistsForEvent(ctx context.Context, eventID int64, name string) (bool, error) {
	query := `
		SELECT 1
		FROM reservations
		WHERE event_id = $1
		  AND LOWER(BTRIM(name)) = LOWER(BTRIM($2))
		LIMIT 1`

	var one int
	err := r.db.QueryRowContext(ctx, query, eventID, name).Scan(&one)

	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing reservation: %w", err)
	}

	return true, nil
}

// ReplaceLines swaps the reservation's full line set inside one transaction,
// scoped to this reservation only.
func (r *reservationRepository) ReplaceLines(ctx context.Context, reservationID int64, lines []models.ReservationLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_lines WHERE reservation_id = $1`, reservationID); err != nil {
		return fmt.Errorf("failed to clear reservation lines: %w", err)
	}

	for _, line := range lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reservation_lines (reservation_id, offer_id, qty)
			VALUES ($1, $2, $3)`,
			reservationID, line.OfferID, line.Qty,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reservation line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation lines: %w", err)
	}

	return nil
}

func (r *reservationRepository) ListWithLines(ctx context.Context, eventID int64) ([]*models.Reservation, error) {
	query := `
		SELECT
			res.id, res.event_id, res.name, res.bring, res.created_at,
			rl.offer_id, rl.qty,
			o.offer_type,
			COALESCE(rec.name, f.name, '') AS label
		FROM reservations res
		LEFT JOIN reservation_lines rl ON rl.reservation_id = res.id
		LEFT JOIN offers o ON o.id = rl.offer_id
		LEFT JOIN recipes rec ON rec.id = o.recipe_id
		LEFT JOIN foods f ON f.id = o.food_id
		WHERE res.event_id = $1
		ORDER BY res.id DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var out []*models.Reservation
	byID := make(map[int64]*models.Reservation)

	for rows.Next() {
		var (
			res     models.Reservation
			offerID sql.NullInt64
			qty     sql.NullInt64
			typ     sql.NullString
			label   sql.NullString
		)
		if err := rows.Scan(
			&res.ID,
			&res.EventID,
			&res.Name,
			&res.Bring,
			&res.CreatedAt,
			&offerID,
			&qty,
			&typ,
			&label,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}

		current, ok := byID[res.ID]
		if !ok {
			current = &models.Reservation{
				ID:        res.ID,
				EventID:   res.EventID,
				Name:      res.Name,
				Bring:     res.Bring,
				CreatedAt: res.CreatedAt,
			}
			byID[res.ID] = current
			out = append(out, current)
		}

		if offerID.Valid && qty.Valid {
			current.Lines = append(current.Lines, models.ReservationLine{
				OfferID: offerID.Int64,
				Qty:     int(qty.Int64),
				Label:   label.String,
				Type:    models.OfferType(typ.String),
			})
		}
	}

	return out, rows.Err()
}
