package models

// OfferType distinguishes main dishes (backed by a recipe) from sides
// (backed by a food).
type OfferType string

const (
	OfferTypeMain OfferType = "MAIN"
	OfferTypeSide OfferType = "SIDE"
)

// Offer is one item available for reservation on a given date, with a
// per-person quantity cap. A MAIN offer references exactly one recipe, a SIDE
// offer exactly one food. Deactivated offers stay in place so historical
// reservation lines keep resolving.
type Offer struct {
	ID           int64     `json:"id" db:"id"`
	Date         string    `json:"date" db:"offer_date"` // YYYY-MM-DD
	Type         OfferType `json:"type" db:"offer_type"`
	RecipeID     *int64    `json:"recipe_id,omitempty" db:"recipe_id"`
	FoodID       *int64    `json:"food_id,omitempty" db:"food_id"`
	MaxPerPerson int       `json:"max_per_person" db:"max_per_person"`
	IsActive     bool      `json:"is_active" db:"is_active"`

	// Joined display fields: the recipe or food name, and the food unit for
	// sides. Populated by list queries, not stored on the offer row.
	Label string `json:"label"`
	Unit  string `json:"unit,omitempty"`
}

// ClampQty bounds a requested quantity to [1, MaxPerPerson].
func (o *Offer) ClampQty(qty int) int {
	if qty < 1 {
		qty = 1
	}
	if qty > o.MaxPerPerson {
		qty = o.MaxPerPerson
	}
	return qty
}
