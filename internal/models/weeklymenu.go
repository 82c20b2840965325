package models

// Weekday keys used in WeeklyMenu.Days, Monday first.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// WeeklyMenu is the admin-edited menu template for one week, keyed by the
// Monday date of that week. It seeds Event.Menu when events are
// auto-provisioned.
type WeeklyMenu struct {
	WeekStart string              `json:"week_start" db:"week_start"` // Monday, YYYY-MM-DD
	Days      map[string][]string `json:"days" db:"menu_json"`
}

// ItemsFor returns the item list for a weekday key, or nil if the day is
// absent or empty.
func (m *WeeklyMenu) ItemsFor(day string) []string {
	if m == nil || m.Days == nil {
		return nil
	}
	items := m.Days[day]
	if len(items) == 0 {
		return nil
	}
	return items
}
