package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/notify"
	"github.com/morningshift/breakfast/internal/repository"
	"github.com/morningshift/breakfast/internal/service"
)

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

// handleAdminGo is a bookmarkable shortcut: dashboard when logged in, login
// page otherwise.
func (s *Server) handleAdminGo(w http.ResponseWriter, r *http.Request) {
	if s.isAdmin(r) {
		redirect(w, r, "/admin")
		return
	}
	redirect(w, r, "/admin/login")
}

func (s *Server) handleAdminLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.isAdmin(r) {
		redirect(w, r, "/admin")
		return
	}
	s.render(w, "admin_login.html", map[string]any{"Error": ""})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if !s.credentialsOK(username, password) {
		s.logger.WithField("username", username).Warn("Rejected admin login attempt")
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, "admin_login.html", map[string]any{"Error": "Invalid credentials"})
		return
	}

	s.setAdminSession(w)
	redirect(w, r, "/admin")
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAdminSession(w)
	redirect(w, r, "/")
}

// ---------------------------------------------------------------------------
// Dashboard and event flags
// ---------------------------------------------------------------------------

type dashboardData struct {
	Flash        *Flash
	Event        *models.Event
	Offers       service.ActiveOffers
	Reservations []*models.Reservation
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()

	event, err := s.svc.EnsureEvent(ctx, service.Tomorrow())
	if err != nil {
		s.serverError(w, err, "failed to load tomorrow's event")
		return
	}
	offers, err := s.svc.ListActiveOffers(ctx, event.Date)
	if err != nil {
		s.serverError(w, err, "failed to list offers")
		return
	}
	reservations, err := s.svc.ListReservations(ctx, event.ID)
	if err != nil {
		s.serverError(w, err, "failed to list reservations")
		return
	}

	s.render(w, "admin_dashboard.html", dashboardData{
		Flash:        popFlash(w, r),
		Event:        event,
		Offers:       offers,
		Reservations: reservations,
	})
}

func (s *Server) handleAdminToggleOpen(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.ToggleEventOpen(r.Context(), service.Tomorrow()); err != nil {
		s.serverError(w, err, "failed to toggle event open flag")
		return
	}
	redirect(w, r, "/")
}

func (s *Server) handleAdminTogglePlanned(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.ToggleEventPlanned(r.Context(), service.Tomorrow()); err != nil {
		s.serverError(w, err, "failed to toggle event planned flag")
		return
	}
	redirect(w, r, "/")
}

func (s *Server) handleAdminSyncTomorrow(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.SyncMenuFromTemplate(r.Context(), service.Tomorrow()); err != nil {
		s.serverError(w, err, "failed to sync tomorrow's menu")
		return
	}
	setFlash(w, "Tomorrow's menu synced with the weekly menu.", "success")
	redirect(w, r, "/admin")
}

func (s *Server) handleAdminAnnounceLinks(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()

	if s.announcer == nil {
		setFlash(w, "Telegram announcer is not configured.", "error")
		redirect(w, r, "/admin/shifts")
		return
	}

	event, err := s.svc.EnsureEvent(ctx, service.Tomorrow())
	if err != nil {
		s.serverError(w, err, "failed to load tomorrow's event")
		return
	}
	working, err := s.svc.ListWorkingAgents(ctx, event.Date)
	if err != nil {
		s.serverError(w, err, "failed to list working agents")
		return
	}
	if len(working) == 0 {
		setFlash(w, "No agents on tomorrow's roster yet.", "warning")
		redirect(w, r, "/admin/shifts")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Breakfast %s: %s\n", event.Date, strings.Join(event.Menu, ", "))
	for _, a := range working {
		fmt.Fprintf(&b, "%s: %s\n", a.Name, s.personalLink(r, a.ID, event.Date))
	}

	if err := s.announcer.Announce(b.String()); err != nil {
		s.logger.WithError(err).Error("failed to announce reservation links")
		setFlash(w, "Failed to send the announcement.", "error")
		redirect(w, r, "/admin/shifts")
		return
	}

	setFlash(w, "Reservation links announced.", "success")
	redirect(w, r, "/admin/shifts")
}

// ---------------------------------------------------------------------------
// Agents
// ---------------------------------------------------------------------------

func (s *Server) handleAdminAgents(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	agents, err := s.svc.ListAgents(r.Context(), true)
	if err != nil {
		s.serverError(w, err, "failed to list agents")
		return
	}
	s.render(w, "admin_agents.html", map[string]any{
		"Flash":  popFlash(w, r),
		"Agents": agents,
	})
}

func (s *Server) handleAdminAgentsAdd(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	_, err := s.svc.CreateAgent(r.Context(),
		r.FormValue("name"), r.FormValue("phone"), formBool(r, "whatsapp_optin"))
	if err != nil {
		setFlash(w, err.Error(), "error")
	}
	redirect(w, r, "/admin/agents")
}

func (s *Server) handleAdminAgentsUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	err := s.svc.UpdateAgent(r.Context(), formID(r, "agent_id"),
		r.FormValue("name"), r.FormValue("phone"),
		formBool(r, "whatsapp_optin"), formBool(r, "is_active"))
	if err != nil {
		setFlash(w, err.Error(), "error")
	}
	redirect(w, r, "/admin/agents")
}

func (s *Server) handleAdminAgentsDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	// Soft delete: the agent stays for history, the links stop working once
	// they drop off the roster.
	if err := s.svc.SetAgentActive(r.Context(), formID(r, "agent_id"), false); err != nil {
		s.serverError(w, err, "failed to deactivate agent")
		return
	}
	redirect(w, r, "/admin/agents")
}

func (s *Server) handleAdminAgentsToggleActive(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.SetAgentActive(r.Context(), formID(r, "agent_id"), formBool(r, "is_active")); err != nil {
		s.serverError(w, err, "failed to set agent active flag")
		return
	}
	redirect(w, r, "/admin/agents")
}

func (s *Server) handleAdminAgentsToggleWhatsApp(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.SetAgentWhatsAppOptIn(r.Context(), formID(r, "agent_id"), formBool(r, "whatsapp_optin")); err != nil {
		s.serverError(w, err, "failed to set agent whatsapp opt-in")
		return
	}
	redirect(w, r, "/admin/agents")
}

// ---------------------------------------------------------------------------
// Shifts and personal links
// ---------------------------------------------------------------------------

type shiftsData struct {
	Flash         *Flash
	ShiftDate     string
	Agents        []*models.Agent
	WorkingIDs    map[int64]bool
	WorkingAgents []*models.Agent
	WhatsAppLinks map[int64]string
	PersonalLinks map[int64]string
}

// personalLink builds the signed reservation URL for one agent and date.
func (s *Server) personalLink(r *http.Request, agentID int64, date string) string {
	token := s.svc.Signer().Sign(agentID, date)
	return fmt.Sprintf("%s/?agent=%d&d=%s&k=%s", s.baseURL(r), agentID, date, token)
}

func (s *Server) handleAdminShifts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()

	event, err := s.svc.EnsureEvent(ctx, service.Tomorrow())
	if err != nil {
		s.serverError(w, err, "failed to load tomorrow's event")
		return
	}
	agents, err := s.svc.ListAgents(ctx, false)
	if err != nil {
		s.serverError(w, err, "failed to list agents")
		return
	}
	workingIDs, err := s.svc.ListWorkingAgentIDs(ctx, event.Date)
	if err != nil {
		s.serverError(w, err, "failed to list working agent ids")
		return
	}
	working, err := s.svc.ListWorkingAgents(ctx, event.Date)
	if err != nil {
		s.serverError(w, err, "failed to list working agents")
		return
	}

	menuText := strings.Join(event.Menu, ", ")
	waLinks := make(map[int64]string)
	links := make(map[int64]string)
	for _, a := range working {
		link := s.personalLink(r, a.ID, event.Date)
		links[a.ID] = link
		if !a.WhatsAppOptIn {
			continue
		}
		msg := fmt.Sprintf("Hi! Breakfast on %s: %s.\nReserve here: %s\nIf you bring something, note it in the app.",
			event.Date, menuText, link)
		waLinks[a.ID] = notify.WaMeLink(a.Phone, msg)
	}

	s.render(w, "admin_shifts.html", shiftsData{
		Flash:         popFlash(w, r),
		ShiftDate:     event.Date,
		Agents:        agents,
		WorkingIDs:    workingIDs,
		WorkingAgents: working,
		WhatsAppLinks: waLinks,
		PersonalLinks: links,
	})
}

func (s *Server) handleAdminShiftsSave(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	shiftDate := strings.TrimSpace(r.PostFormValue("shift_date"))
	if shiftDate == "" {
		shiftDate = service.Tomorrow().Format(service.DateFormat)
	}

	var agentIDs []int64
	for _, raw := range r.PostForm["working_agent_ids"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		agentIDs = append(agentIDs, id)
	}

	if err := s.svc.SetWorkingAgents(r.Context(), shiftDate, agentIDs); err != nil {
		s.serverError(w, err, "failed to save roster")
		return
	}
	redirect(w, r, "/admin/shifts")
}

// ---------------------------------------------------------------------------
// Weekly menu
// ---------------------------------------------------------------------------

func (s *Server) handleAdminWeekMenu(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	weekStart := strings.TrimSpace(r.URL.Query().Get("week_start"))
	if weekStart == "" {
		weekStart = service.MondayOfWeek(service.Tomorrow()).Format(service.DateFormat)
	}

	menu, err := s.svc.GetWeeklyMenu(r.Context(), weekStart)
	if err != nil {
		s.serverError(w, err, "failed to load weekly menu")
		return
	}

	type dayRow struct {
		Key   string
		Items string
	}
	rows := make([]dayRow, 0, len(models.Weekdays))
	for _, day := range models.Weekdays {
		rows = append(rows, dayRow{Key: day, Items: strings.Join(menu.Days[day], ", ")})
	}

	s.render(w, "admin_week_menu.html", map[string]any{
		"Flash":     popFlash(w, r),
		"WeekStart": weekStart,
		"Days":      rows,
	})
}

func parseMenuItems(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func (s *Server) handleAdminWeekMenuSave(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	weekStart := strings.TrimSpace(r.FormValue("week_start"))
	if weekStart == "" {
		setFlash(w, "week_start is required.", "error")
		redirect(w, r, "/admin/week-menu")
		return
	}

	menu := &models.WeeklyMenu{WeekStart: weekStart, Days: map[string][]string{}}
	for _, day := range models.Weekdays {
		menu.Days[day] = parseMenuItems(r.FormValue(day))
	}

	if err := s.svc.SaveWeeklyMenu(r.Context(), menu); err != nil {
		s.serverError(w, err, "failed to save weekly menu")
		return
	}
	redirect(w, r, "/admin/week-menu?week_start="+weekStart)
}

// ---------------------------------------------------------------------------
// Foods
// ---------------------------------------------------------------------------

func (s *Server) handleAdminFoods(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	foods, err := s.svc.ListFoods(r.Context(), true)
	if err != nil {
		s.serverError(w, err, "failed to list foods")
		return
	}
	s.render(w, "admin_foods.html", map[string]any{
		"Flash": popFlash(w, r),
		"Foods": foods,
	})
}

func (s *Server) handleAdminFoodsAdd(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.AddFood(r.Context(), r.FormValue("name"), r.FormValue("unit")); err != nil {
		s.serverError(w, err, "failed to add food")
		return
	}
	redirect(w, r, "/admin/foods")
}

func (s *Server) handleAdminFoodsToggle(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.SetFoodActive(r.Context(), formID(r, "food_id"), formBool(r, "is_active")); err != nil {
		s.serverError(w, err, "failed to set food active flag")
		return
	}
	redirect(w, r, "/admin/foods")
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

func (s *Server) handleAdminRecipes(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	recipes, err := s.svc.ListRecipes(r.Context(), true)
	if err != nil {
		s.serverError(w, err, "failed to list recipes")
		return
	}
	s.render(w, "admin_recipes.html", map[string]any{
		"Flash":   popFlash(w, r),
		"Recipes": recipes,
	})
}

func (s *Server) handleAdminRecipesAdd(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.AddRecipe(r.Context(), r.FormValue("name")); err != nil {
		s.serverError(w, err, "failed to add recipe")
		return
	}
	redirect(w, r, "/admin/recipes")
}

func (s *Server) handleAdminRecipesToggle(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.SetRecipeActive(r.Context(), formID(r, "recipe_id"), formBool(r, "is_active")); err != nil {
		s.serverError(w, err, "failed to set recipe active flag")
		return
	}
	redirect(w, r, "/admin/recipes")
}

func (s *Server) handleAdminRecipeEdit(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	recipe, err := s.svc.GetRecipe(r.Context(), id)
	if err != nil {
		s.serverError(w, err, "failed to load recipe")
		return
	}
	if recipe == nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, "admin_recipe_edit.html", map[string]any{
		"Flash":  popFlash(w, r),
		"Recipe": recipe,
	})
}

func (s *Server) handleAdminRecipeRename(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	err = s.svc.RenameRecipe(r.Context(), id, r.FormValue("name"))
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		setFlash(w, "A recipe with that name already exists.", "error")
		redirect(w, r, fmt.Sprintf("/admin/recipes/%d", id))
		return
	case errors.Is(err, service.ErrRecipeNameRequired):
		setFlash(w, err.Error(), "error")
		redirect(w, r, fmt.Sprintf("/admin/recipes/%d", id))
		return
	case err != nil:
		s.serverError(w, err, "failed to rename recipe")
		return
	}

	redirect(w, r, "/admin/recipes")
}

// ---------------------------------------------------------------------------
// Offers
// ---------------------------------------------------------------------------

func (s *Server) handleAdminOffers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	ctx := r.Context()

	offerDate := service.Tomorrow().Format(service.DateFormat)

	recipes, err := s.svc.ListRecipes(ctx, false)
	if err != nil {
		s.serverError(w, err, "failed to list recipes")
		return
	}
	foods, err := s.svc.ListFoods(ctx, false)
	if err != nil {
		s.serverError(w, err, "failed to list foods")
		return
	}
	offers, err := s.svc.Offers.ListByDate(ctx, offerDate)
	if err != nil {
		s.serverError(w, err, "failed to list offers")
		return
	}

	var mains, sides []*models.Offer
	for _, o := range offers {
		if o.Type == models.OfferTypeMain {
			mains = append(mains, o)
		} else {
			sides = append(sides, o)
		}
	}

	s.render(w, "admin_offers.html", map[string]any{
		"Flash":     popFlash(w, r),
		"OfferDate": offerDate,
		"Recipes":   recipes,
		"Foods":     foods,
		"Mains":     mains,
		"Sides":     sides,
	})
}

func (s *Server) handleAdminOffersAddMain(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	date := service.Tomorrow().Format(service.DateFormat)
	if err := s.svc.AddMainOffer(r.Context(), date, formID(r, "recipe_id"), formInt(r, "max_per_person", 1)); err != nil {
		s.serverError(w, err, "failed to add main offer")
		return
	}
	redirect(w, r, "/admin/offers")
}

func (s *Server) handleAdminOffersAddSide(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	date := service.Tomorrow().Format(service.DateFormat)
	if err := s.svc.AddSideOffer(r.Context(), date, formID(r, "food_id"), formInt(r, "max_per_person", 1)); err != nil {
		s.serverError(w, err, "failed to add side offer")
		return
	}
	redirect(w, r, "/admin/offers")
}

func (s *Server) handleAdminOffersUpdateMax(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.UpdateOfferMax(r.Context(), formID(r, "offer_id"), formInt(r, "max_per_person", 1)); err != nil {
		s.serverError(w, err, "failed to update offer cap")
		return
	}
	redirect(w, r, "/admin/offers")
}

func (s *Server) handleAdminOffersToggle(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.svc.SetOfferActive(r.Context(), formID(r, "offer_id"), formBool(r, "is_active")); err != nil {
		s.serverError(w, err, "failed to set offer active flag")
		return
	}
	redirect(w, r, "/admin/offers")
}
