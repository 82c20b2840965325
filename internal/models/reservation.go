package models

import "time"

// Reservation is one agent's submission for one event: at most one main-dish
// line, any number of side lines, plus a free-text note about what the agent
// brings along.
type Reservation struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	Name      string    `json:"name" db:"name"`
	Bring     string    `json:"bring" db:"bring"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Lines []ReservationLine `json:"lines,omitempty"`
}

// ReservationLine is one validated (offer, quantity) pair owned by a
// reservation. Lines are cascade-deleted with their reservation.
type ReservationLine struct {
	OfferID int64 `json:"offer_id" db:"offer_id"`
	Qty     int   `json:"qty" db:"qty"`

	// Joined display fields for rendering past reservations.
	Label string    `json:"label,omitempty"`
	Type  OfferType `json:"type,omitempty"`
}
