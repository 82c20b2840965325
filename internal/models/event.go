package models

// Event is the breakfast instance for one calendar date. There is at most one
// event per date; it is auto-provisioned on first access and never deleted.
type Event struct {
	ID      int64    `json:"id" db:"id"`
	Date    string   `json:"date" db:"event_date"` // YYYY-MM-DD
	Menu    []string `json:"menu" db:"menu_json"`
	Open    bool     `json:"open" db:"is_open"`
	Planned bool     `json:"planned" db:"is_planned"`
}

// Reservable reports whether the event currently accepts reservations.
func (e *Event) Reservable() bool {
	return e.Planned && e.Open
}
