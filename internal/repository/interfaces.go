package repository

import (
	"context"
	"errors"

	"github.com/morningshift/breakfast/internal/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// e.g. a second reservation for the same (event, normalized name).
var ErrDuplicate = errors.New("duplicate row")

// EventRepository defines data operations for breakfast events.
type EventRepository interface {
	GetByDate(ctx context.Context, date string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	UpdateMenu(ctx context.Context, date string, menu []string) error
	ToggleOpen(ctx context.Context, id int64) error
	TogglePlanned(ctx context.Context, id int64) error
	SetPlanned(ctx context.Context, id int64, planned bool) error
}

// AgentRepository defines data operations for agents.
type AgentRepository interface {
	Create(ctx context.Context, agent *models.Agent) (*models.Agent, error)
	GetByID(ctx context.Context, id int64) (*models.Agent, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Agent, error)
	Update(ctx context.Context, agent *models.Agent) (*models.Agent, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetWhatsAppOptIn(ctx context.Context, id int64, optIn bool) error
}

// ShiftRepository defines data operations for the per-date work roster.
type ShiftRepository interface {
	// SetWorkingAgents atomically replaces the full roster for a date.
	SetWorkingAgents(ctx context.Context, date string, agentIDs []int64) error
	ListWorkingAgentIDs(ctx context.Context, date string) (map[int64]bool, error)
	// ListWorkingAgents returns active agents scheduled for the date,
	// ordered case-insensitively by name.
	ListWorkingAgents(ctx context.Context, date string) ([]*models.Agent, error)
}

// WeeklyMenuRepository defines data operations for weekly menu templates.
type WeeklyMenuRepository interface {
	Get(ctx context.Context, weekStart string) (*models.WeeklyMenu, error)
	Upsert(ctx context.Context, menu *models.WeeklyMenu) error
}

// FoodRepository defines data operations for the side-dish catalog.
type FoodRepository interface {
	// Upsert inserts a food or, if the name already exists, reactivates it.
	Upsert(ctx context.Context, name, unit string) error
	List(ctx context.Context, includeInactive bool) ([]*models.Food, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// RecipeRepository defines data operations for the main-dish catalog.
type RecipeRepository interface {
	// Upsert inserts a recipe or, if the name already exists, reactivates it.
	Upsert(ctx context.Context, name string) error
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Recipe, error)
	Rename(ctx context.Context, id int64, name string) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// OfferRepository defines data operations for dated offers.
type OfferRepository interface {
	// ListByDate returns all offers for a date with display labels joined in,
	// mains before sides, each group ordered by label.
	ListByDate(ctx context.Context, date string) ([]*models.Offer, error)
	// GetByReference finds the offer for an exact (date, type, recipe-or-food)
	// triple, active or not.
	GetByReference(ctx context.Context, date string, typ models.OfferType, refID int64) (*models.Offer, error)
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	// Reactivate sets the offer active and overwrites its cap.
	Reactivate(ctx context.Context, id int64, maxPerPerson int) error
	UpdateMax(ctx context.Context, id int64, maxPerPerson int) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// ReservationRepository defines data operations for reservations and their
// lines.
type ReservationRepository interface {
	// Create inserts a reservation row. Returns ErrDuplicate when one already
	// exists for the same event and normalized name.
	Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error)
	// ExistsForEvent reports whether a reservation exists for the event under
	// case-insensitive, trimmed name comparison.
	ExistsForEvent(ctx context.Context, eventID int64, name string) (bool, error)
	// ReplaceLines atomically swaps the reservation's line set.
	ReplaceLines(ctx context.Context, reservationID int64, lines []models.ReservationLine) error
	// ListWithLines returns the event's reservations, newest first, each with
	// its labeled lines.
	ListWithLines(ctx context.Context, eventID int64) ([]*models.Reservation, error)
}
