package service

import (
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/morningshift/breakfast/internal/linksign"
	"github.com/morningshift/breakfast/internal/repository"
)

// Service is the central business logic layer that holds all repositories,
// the link signer, and provides high-level methods for the application.
type Service struct {
	db     *sql.DB
	logger *logrus.Logger
	signer *linksign.Signer

	Events       repository.EventRepository
	Agents       repository.AgentRepository
	Shifts       repository.ShiftRepository
	WeeklyMenus  repository.WeeklyMenuRepository
	Foods        repository.FoodRepository
	Recipes      repository.RecipeRepository
	Offers       repository.OfferRepository
	Reservations repository.ReservationRepository
}

// New creates a new Service with all required dependencies.
func New(db *sql.DB, logger *logrus.Logger, signer *linksign.Signer,
	events repository.EventRepository,
	agents repository.AgentRepository,
	shifts repository.ShiftRepository,
	weeklyMenus repository.WeeklyMenuRepository,
	foods repository.FoodRepository,
	recipes repository.RecipeRepository,
	offers repository.OfferRepository,
	reservations repository.ReservationRepository,
) *Service {
	return &Service{
		db: db, logger: logger, signer: signer,
		Events: events, Agents: agents, Shifts: shifts,
		WeeklyMenus: weeklyMenus, Foods: foods, Recipes: recipes,
		Offers: offers, Reservations: reservations,
	}
}

// Signer returns the link signer used for personal reservation links.
func (s *Service) Signer() *linksign.Signer {
	return s.signer
}
