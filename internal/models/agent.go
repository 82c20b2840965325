package models

import "time"

// Agent is a staff member who can be scheduled for a shift and receive a
// personal reservation link. Agents are soft-deleted via the active flag so
// historical reservations keep a valid owner.
type Agent struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Phone         string    `json:"phone" db:"phone"`
	WhatsAppOptIn bool      `json:"whatsapp_optin" db:"whatsapp_optin"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
