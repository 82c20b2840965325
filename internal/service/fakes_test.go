package service_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/morningshift/breakfast/internal/linksign"
	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
	"github.com/morningshift/breakfast/internal/service"
)

// In-memory repository fakes backing the service tests.

type fakeEventRepo struct {
	nextID int64
	byDate map[string]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byDate: make(map[string]*models.Event)}
}

func (r *fakeEventRepo) GetByDate(_ context.Context, date string) (*models.Event, error) {
	e, ok := r.byDate[date]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) (*models.Event, error) {
	if _, ok := r.byDate[event.Date]; ok {
		return nil, repository.ErrDuplicate
	}
	r.nextID++
	event.ID = r.nextID
	clone := *event
	r.byDate[event.Date] = &clone
	return event, nil
}

func (r *fakeEventRepo) UpdateMenu(_ context.Context, date string, menu []string) error {
	if e, ok := r.byDate[date]; ok {
		e.Menu = menu
	}
	return nil
}

func (r *fakeEventRepo) ToggleOpen(_ context.Context, id int64) error {
	for _, e := range r.byDate {
		if e.ID == id {
			e.Open = !e.Open
		}
	}
	return nil
}

func (r *fakeEventRepo) TogglePlanned(_ context.Context, id int64) error {
	for _, e := range r.byDate {
		if e.ID == id {
			e.Planned = !e.Planned
		}
	}
	return nil
}

func (r *fakeEventRepo) SetPlanned(_ context.Context, id int64, planned bool) error {
	for _, e := range r.byDate {
		if e.ID == id {
			e.Planned = planned
		}
	}
	return nil
}

type fakeAgentRepo struct {
	nextID int64
	byID   map[int64]*models.Agent
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{byID: make(map[int64]*models.Agent)}
}

func (r *fakeAgentRepo) Create(_ context.Context, agent *models.Agent) (*models.Agent, error) {
	r.nextID++
	agent.ID = r.nextID
	clone := *agent
	r.byID[agent.ID] = &clone
	return agent, nil
}

func (r *fakeAgentRepo) GetByID(_ context.Context, id int64) (*models.Agent, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (r *fakeAgentRepo) List(_ context.Context, includeInactive bool) ([]*models.Agent, error) {
	var out []*models.Agent
	for _, a := range r.byID {
		if !includeInactive && !a.IsActive {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (r *fakeAgentRepo) Update(_ context.Context, agent *models.Agent) (*models.Agent, error) {
	if _, ok := r.byID[agent.ID]; !ok {
		return nil, fmt.Errorf("agent with ID %d not found", agent.ID)
	}
	clone := *agent
	r.byID[agent.ID] = &clone
	return agent, nil
}

func (r *fakeAgentRepo) SetActive(_ context.Context, id int64, active bool) error {
	if a, ok := r.byID[id]; ok {
		a.IsActive = active
	}
	return nil
}

func (r *fakeAgentRepo) SetWhatsAppOptIn(_ context.Context, id int64, optIn bool) error {
	if a, ok := r.byID[id]; ok {
		a.WhatsAppOptIn = optIn
	}
	return nil
}

type fakeShiftRepo struct {
	agents *fakeAgentRepo
	byDate map[string]map[int64]bool
}

func newFakeShiftRepo(agents *fakeAgentRepo) *fakeShiftRepo {
	return &fakeShiftRepo{agents: agents, byDate: make(map[string]map[int64]bool)}
}

func (r *fakeShiftRepo) SetWorkingAgents(_ context.Context, date string, agentIDs []int64) error {
	set := make(map[int64]bool)
	for _, id := range agentIDs {
		set[id] = true
	}
	r.byDate[date] = set
	return nil
}

func (r *fakeShiftRepo) ListWorkingAgentIDs(_ context.Context, date string) (map[int64]bool, error) {
	out := make(map[int64]bool)
	for id := range r.byDate[date] {
		out[id] = true
	}
	return out, nil
}

func (r *fakeShiftRepo) ListWorkingAgents(ctx context.Context, date string) ([]*models.Agent, error) {
	var out []*models.Agent
	for id := range r.byDate[date] {
		a, _ := r.agents.GetByID(ctx, id)
		if a != nil && a.IsActive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

type fakeWeeklyMenuRepo struct {
	byWeek map[string]*models.WeeklyMenu
}

func newFakeWeeklyMenuRepo() *fakeWeeklyMenuRepo {
	return &fakeWeeklyMenuRepo{byWeek: make(map[string]*models.WeeklyMenu)}
}

func (r *fakeWeeklyMenuRepo) Get(_ context.Context, weekStart string) (*models.WeeklyMenu, error) {
	m, ok := r.byWeek[weekStart]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (r *fakeWeeklyMenuRepo) Upsert(_ context.Context, menu *models.WeeklyMenu) error {
	r.byWeek[menu.WeekStart] = menu
	return nil
}

type fakeFoodRepo struct {
	nextID int64
	byName map[string]*models.Food
}

func newFakeFoodRepo() *fakeFoodRepo {
	return &fakeFoodRepo{byName: make(map[string]*models.Food)}
}

func (r *fakeFoodRepo) Upsert(_ context.Context, name, unit string) error {
	if f, ok := r.byName[name]; ok {
		f.IsActive = true
		return nil
	}
	r.nextID++
	r.byName[name] = &models.Food{ID: r.nextID, Name: name, Unit: unit, IsActive: true}
	return nil
}

func (r *fakeFoodRepo) List(_ context.Context, includeInactive bool) ([]*models.Food, error) {
	var out []*models.Food
	for _, f := range r.byName {
		if !includeInactive && !f.IsActive {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFoodRepo) SetActive(_ context.Context, id int64, active bool) error {
	for _, f := range r.byName {
		if f.ID == id {
			f.IsActive = active
		}
	}
	return nil
}

type fakeRecipeRepo struct {
	nextID int64
	byName map[string]*models.Recipe
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{byName: make(map[string]*models.Recipe)}
}

func (r *fakeRecipeRepo) Upsert(_ context.Context, name string) error {
	if rec, ok := r.byName[name]; ok {
		rec.IsActive = true
		return nil
	}
	r.nextID++
	r.byName[name] = &models.Recipe{ID: r.nextID, Name: name, IsActive: true}
	return nil
}

func (r *fakeRecipeRepo) GetByID(_ context.Context, id int64) (*models.Recipe, error) {
	for _, rec := range r.byName {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *fakeRecipeRepo) List(_ context.Context, includeInactive bool) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, rec := range r.byName {
		if !includeInactive && !rec.IsActive {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRecipeRepo) Rename(_ context.Context, id int64, name string) error {
	for old, rec := range r.byName {
		if rec.ID == id {
			delete(r.byName, old)
			rec.Name = name
			r.byName[name] = rec
			return nil
		}
	}
	return fmt.Errorf("recipe with ID %d not found", id)
}

func (r *fakeRecipeRepo) SetActive(_ context.Context, id int64, active bool) error {
	for _, rec := range r.byName {
		if rec.ID == id {
			rec.IsActive = active
		}
	}
	return nil
}

type fakeOfferRepo struct {
	nextID int64
	byID   map[int64]*models.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{byID: make(map[int64]*models.Offer)}
}

func (r *fakeOfferRepo) ListByDate(_ context.Context, date string) ([]*models.Offer, error) {
	var out []*models.Offer
	for _, o := range r.byID {
		if o.Date == date {
			clone := *o
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type == models.OfferTypeMain
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeOfferRepo) GetByReference(_ context.Context, date string, typ models.OfferType, refID int64) (*models.Offer, error) {
	for _, o := range r.byID {
		if o.Date != date || o.Type != typ {
			continue
		}
		if typ == models.OfferTypeMain && o.RecipeID != nil && *o.RecipeID == refID {
			clone := *o
			return &clone, nil
		}
		if typ == models.OfferTypeSide && o.FoodID != nil && *o.FoodID == refID {
			clone := *o
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeOfferRepo) Create(_ context.Context, offer *models.Offer) (*models.Offer, error) {
	r.nextID++
	offer.ID = r.nextID
	clone := *offer
	r.byID[offer.ID] = &clone
	return offer, nil
}

func (r *fakeOfferRepo) Reactivate(_ context.Context, id int64, maxPerPerson int) error {
	if o, ok := r.byID[id]; ok {
		o.IsActive = true
		o.MaxPerPerson = maxPerPerson
	}
	return nil
}

func (r *fakeOfferRepo) UpdateMax(_ context.Context, id int64, maxPerPerson int) error {
	if o, ok := r.byID[id]; ok {
		o.MaxPerPerson = maxPerPerson
	}
	return nil
}

func (r *fakeOfferRepo) SetActive(_ context.Context, id int64, active bool) error {
	if o, ok := r.byID[id]; ok {
		o.IsActive = active
	}
	return nil
}

type fakeReservationRepo struct {
	nextID int64
	rows   []*models.Reservation
	lines  map[int64][]models.ReservationLine
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{lines: make(map[int64][]models.ReservationLine)}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *fakeReservationRepo) Create(_ context.Context, res *models.Reservation) (*models.Reservation, error) {
	for _, row := range r.rows {
		if row.EventID == res.EventID && normalizeName(row.Name) == normalizeName(res.Name) {
			return nil, repository.ErrDuplicate
		}
	}
	r.nextID++
	res.ID = r.nextID
	clone := *res
	r.rows = append(r.rows, &clone)
	return res, nil
}

func (r *fakeReservationRepo) ExistsForEvent(_ context.Context, eventID int64, name string) (bool, error) {
	for _, row := range r.rows {
		if row.EventID == eventID && normalizeName(row.Name) == normalizeName(name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReservationRepo) ReplaceLines(_ context.Context, reservationID int64, lines []models.ReservationLine) error {
	r.lines[reservationID] = append([]models.ReservationLine(nil), lines...)
	return nil
}

func (r *fakeReservationRepo) ListWithLines(_ context.Context, eventID int64) ([]*models.Reservation, error) {
	var out []*models.Reservation
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := r.rows[i]
		if row.EventID != eventID {
			continue
		}
		clone := *row
		clone.Lines = append([]models.ReservationLine(nil), r.lines[row.ID]...)
		out = append(out, &clone)
	}
	return out, nil
}

// fixture bundles the fakes behind one Service for tests.
type fixture struct {
	svc          *service.Service
	signer       *linksign.Signer
	events       *fakeEventRepo
	agents       *fakeAgentRepo
	shifts       *fakeShiftRepo
	weeklyMenus  *fakeWeeklyMenuRepo
	foods        *fakeFoodRepo
	recipes      *fakeRecipeRepo
	offers       *fakeOfferRepo
	reservations *fakeReservationRepo
}

func newFixture() *fixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	signer := linksign.New("test-secret")
	events := newFakeEventRepo()
	agents := newFakeAgentRepo()
	shifts := newFakeShiftRepo(agents)
	weeklyMenus := newFakeWeeklyMenuRepo()
	foods := newFakeFoodRepo()
	recipes := newFakeRecipeRepo()
	offers := newFakeOfferRepo()
	reservations := newFakeReservationRepo()

	svc := service.New(nil, log, signer,
		events, agents, shifts, weeklyMenus, foods, recipes, offers, reservations)

	return &fixture{
		svc: svc, signer: signer,
		events: events, agents: agents, shifts: shifts, weeklyMenus: weeklyMenus,
		foods: foods, recipes: recipes, offers: offers, reservations: reservations,
	}
}
