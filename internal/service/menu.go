package service

import (
	"context"
	"fmt"
	"time"

	"github.com/morningshift/breakfast/internal/models"
)

// DefaultMenu is used when no weekly menu entry exists for a date.
var DefaultMenu = []string{"Œufs", "Pain", "Charcuterie", "Pancakes"}

// DateFormat is the wire format for all calendar dates.
const DateFormat = "2006-01-02"

// Tomorrow returns tomorrow's date, the single reservable day.
func Tomorrow() time.Time {
	return time.Now().AddDate(0, 0, 1)
}

// MondayOfWeek returns the Monday of the week containing d.
func MondayOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// WeekdayKey returns the weekly-menu key for d, "monday".."sunday".
func WeekdayKey(d time.Time) string {
	return models.Weekdays[(int(d.Weekday())+6)%7]
}

// MenuForDate resolves the menu for a date from the weekly menu template,
// falling back to DefaultMenu when no entry or an empty day list exists.
func (s *Service) MenuForDate(ctx context.Context, d time.Time) ([]string, error) {
	weekStart := MondayOfWeek(d).Format(DateFormat)

	weekly, err := s.WeeklyMenus.Get(ctx, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly menu for %s: %w", weekStart, err)
	}

	if items := weekly.ItemsFor(WeekdayKey(d)); items != nil {
		return items, nil
	}
	return DefaultMenu, nil
}

// EnsureEvent returns the event for the date, creating it on first access.
// New events start open and planned with the weekly menu for that date.
func (s *Service) EnsureEvent(ctx context.Context, d time.Time) (*models.Event, error) {
	date := d.Format(DateFormat)

	event, err := s.Events.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if event != nil {
		return event, nil
	}

	menu, err := s.MenuForDate(ctx, d)
	if err != nil {
		return nil, err
	}

	event, err = s.Events.Create(ctx, &models.Event{
		Date:    date,
		Menu:    menu,
		Open:    true,
		Planned: true,
	})
	if err != nil {
		// A concurrent request may have provisioned the event first.
		if existing, getErr := s.Events.GetByDate(ctx, date); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	s.logger.Infof("Provisioned event for %s with %d menu items", date, len(menu))
	return event, nil
}

// SyncMenuFromTemplate refreshes the event's menu from the weekly template
// without touching the open/planned flags, creating the event if missing.
func (s *Service) SyncMenuFromTemplate(ctx context.Context, d time.Time) error {
	date := d.Format(DateFormat)

	menu, err := s.MenuForDate(ctx, d)
	if err != nil {
		return err
	}

	event, err := s.Events.GetByDate(ctx, date)
	if err != nil {
		return err
	}
	if event == nil {
		_, err := s.Events.Create(ctx, &models.Event{
			Date:    date,
			Menu:    menu,
			Open:    true,
			Planned: true,
		})
		return err
	}

	return s.Events.UpdateMenu(ctx, date, menu)
}

// ToggleEventOpen flips the open flag of the date's event, provisioning it
// first if needed.
func (s *Service) ToggleEventOpen(ctx context.Context, d time.Time) error {
	event, err := s.EnsureEvent(ctx, d)
	if err != nil {
		return err
	}
	return s.Events.ToggleOpen(ctx, event.ID)
}

// ToggleEventPlanned flips the planned flag of the date's event, provisioning
// it first if needed.
func (s *Service) ToggleEventPlanned(ctx context.Context, d time.Time) error {
	event, err := s.EnsureEvent(ctx, d)
	if err != nil {
		return err
	}
	return s.Events.TogglePlanned(ctx, event.ID)
}

// SetEventPlanned sets the planned flag explicitly, provisioning the event
// first if needed.
func (s *Service) SetEventPlanned(ctx context.Context, d time.Time, planned bool) error {
	event, err := s.EnsureEvent(ctx, d)
	if err != nil {
		return err
	}
	return s.Events.SetPlanned(ctx, event.ID, planned)
}

// GetWeeklyMenu returns the weekly menu for the given Monday, with empty day
// lists when no template has been saved yet.
func (s *Service) GetWeeklyMenu(ctx context.Context, weekStart string) (*models.WeeklyMenu, error) {
	menu, err := s.WeeklyMenus.Get(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		menu = &models.WeeklyMenu{WeekStart: weekStart, Days: map[string][]string{}}
		for _, day := range models.Weekdays {
			menu.Days[day] = []string{}
		}
	}
	return menu, nil
}

// SaveWeeklyMenu upserts the weekly menu template for its Monday.
func (s *Service) SaveWeeklyMenu(ctx context.Context, menu *models.WeeklyMenu) error {
	return s.WeeklyMenus.Upsert(ctx, menu)
}
