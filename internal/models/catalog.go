package models

// Food is a side-dish catalog entry (bread, juice, ...) with a serving unit.
// Soft-deleted via the active flag, never removed.
type Food struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Unit     string `json:"unit" db:"unit"`
	IsActive bool   `json:"is_active" db:"is_active"`
}

// Recipe is a main-dish catalog entry. Soft-deleted via the active flag.
type Recipe struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	IsActive bool   `json:"is_active" db:"is_active"`
}
