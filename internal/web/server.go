// Package web serves the public reservation page and the admin panel.
package web

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/morningshift/breakfast/internal/metrics"
	"github.com/morningshift/breakfast/internal/notify"
	"github.com/morningshift/breakfast/internal/service"
)

// Server provides the HTTP surface of the application.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
	tmpl   *template.Template

	sessionSecret []byte
	adminUser     string
	adminPass     string
	publicBaseURL string
	announcer     notify.Announcer // nil when not configured
}

// Options carries the web server configuration.
type Options struct {
	SessionSecret string
	AdminUsername string
	AdminPassword string
	PublicBaseURL string
	Announcer     notify.Announcer
	TemplateDir   string // defaults to web/templates
}

// NewServer parses the templates, registers all routes, and returns the
// server.
func NewServer(svc *service.Service, logger *logrus.Logger, opts Options) (*Server, error) {
	dir := opts.TemplateDir
	if dir == "" {
		dir = "web/templates"
	}
	tmpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		svc:           svc,
		logger:        logger,
		mux:           http.NewServeMux(),
		tmpl:          tmpl,
		sessionSecret: []byte(opts.SessionSecret),
		adminUser:     opts.AdminUsername,
		adminPass:     opts.AdminPassword,
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		announcer:     opts.Announcer,
	}
	s.routes()
	return s, nil
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// Public
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("POST /reserve", s.handleReserve)

	// Operational
	s.mux.Handle("GET /metrics", metrics.Handler())

	// Admin - auth
	s.mux.HandleFunc("GET /admin/go", s.handleAdminGo)
	s.mux.HandleFunc("GET /admin/login", s.handleAdminLoginPage)
	s.mux.HandleFunc("POST /admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("POST /admin/logout", s.handleAdminLogout)

	// Admin - dashboard and event flags
	s.mux.HandleFunc("GET /admin", s.handleAdminDashboard)
	s.mux.HandleFunc("POST /admin/toggle", s.handleAdminToggleOpen)
	s.mux.HandleFunc("POST /admin/toggle-planned", s.handleAdminTogglePlanned)
	s.mux.HandleFunc("POST /admin/sync-tomorrow", s.handleAdminSyncTomorrow)
	s.mux.HandleFunc("POST /admin/announce-links", s.handleAdminAnnounceLinks)

	// Admin - agents
	s.mux.HandleFunc("GET /admin/agents", s.handleAdminAgents)
	s.mux.HandleFunc("POST /admin/agents/add", s.handleAdminAgentsAdd)
	s.mux.HandleFunc("POST /admin/agents/update", s.handleAdminAgentsUpdate)
	s.mux.HandleFunc("POST /admin/agents/delete", s.handleAdminAgentsDelete)
	s.mux.HandleFunc("POST /admin/agents/toggle-active", s.handleAdminAgentsToggleActive)
	s.mux.HandleFunc("POST /admin/agents/toggle-whatsapp", s.handleAdminAgentsToggleWhatsApp)

	// Admin - shifts
	s.mux.HandleFunc("GET /admin/shifts", s.handleAdminShifts)
	s.mux.HandleFunc("POST /admin/shifts/save", s.handleAdminShiftsSave)

	// Admin - weekly menu
	s.mux.HandleFunc("GET /admin/week-menu", s.handleAdminWeekMenu)
	s.mux.HandleFunc("POST /admin/week-menu/save", s.handleAdminWeekMenuSave)

	// Admin - catalog
	s.mux.HandleFunc("GET /admin/foods", s.handleAdminFoods)
	s.mux.HandleFunc("POST /admin/foods/add", s.handleAdminFoodsAdd)
	s.mux.HandleFunc("POST /admin/foods/toggle", s.handleAdminFoodsToggle)
	s.mux.HandleFunc("GET /admin/recipes", s.handleAdminRecipes)
	s.mux.HandleFunc("POST /admin/recipes/add", s.handleAdminRecipesAdd)
	s.mux.HandleFunc("POST /admin/recipes/toggle", s.handleAdminRecipesToggle)
	s.mux.HandleFunc("GET /admin/recipes/{id}", s.handleAdminRecipeEdit)
	s.mux.HandleFunc("POST /admin/recipes/{id}/rename", s.handleAdminRecipeRename)

	// Admin - offers
	s.mux.HandleFunc("GET /admin/offers", s.handleAdminOffers)
	s.mux.HandleFunc("POST /admin/offers/add-main", s.handleAdminOffersAddMain)
	s.mux.HandleFunc("POST /admin/offers/add-side", s.handleAdminOffersAddSide)
	s.mux.HandleFunc("POST /admin/offers/update-max", s.handleAdminOffersUpdateMax)
	s.mux.HandleFunc("POST /admin/offers/toggle", s.handleAdminOffersToggle)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.WithError(err).Errorf("failed to execute template %s", name)
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error, message string) {
	s.logger.WithError(err).Error(message)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// formID reads an int64 form field, returning 0 when absent or malformed.
func formID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue(key)), 10, 64)
	return id
}

// formInt reads an int form field with a fallback default.
func formInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return def
	}
	return v
}

// formBool treats any non-empty value ("on", "1", "true") as set.
func formBool(r *http.Request, key string) bool {
	v := strings.TrimSpace(r.FormValue(key))
	return v != "" && v != "0" && v != "false"
}

// baseURL resolves the externally visible base URL, preferring the
// configured one over the request host.
func (s *Server) baseURL(r *http.Request) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
