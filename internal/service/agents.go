package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/morningshift/breakfast/internal/models"
)

// Field-level validation errors for agent mutations.
var (
	ErrAgentNameRequired  = errors.New("agent name is required")
	ErrAgentPhoneRequired = errors.New("agent phone is required")
)

// validateAgentInput trims name and phone and aggregates every missing-field
// error so the admin sees them all at once.
func validateAgentInput(name, phone string) (string, string, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	var result *multierror.Error
	if name == "" {
		result = multierror.Append(result, ErrAgentNameRequired)
	}
	if phone == "" {
		result = multierror.Append(result, ErrAgentPhoneRequired)
	}

	return name, phone, result.ErrorOrNil()
}

// CreateAgent validates and registers a new agent, active by default.
func (s *Service) CreateAgent(ctx context.Context, name, phone string, whatsAppOptIn bool) (*models.Agent, error) {
	name, phone, err := validateAgentInput(name, phone)
	if err != nil {
		return nil, err
	}

	agent, err := s.Agents.Create(ctx, &models.Agent{
		Name:          name,
		Phone:         phone,
		WhatsAppOptIn: whatsAppOptIn,
		IsActive:      true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Created agent %q (id=%d)", agent.Name, agent.ID)
	return agent, nil
}

// UpdateAgent validates and overwrites an agent's editable fields.
func (s *Service) UpdateAgent(ctx context.Context, id int64, name, phone string, whatsAppOptIn, active bool) error {
	name, phone, err := validateAgentInput(name, phone)
	if err != nil {
		return err
	}

	_, err = s.Agents.Update(ctx, &models.Agent{
		ID:            id,
		Name:          name,
		Phone:         phone,
		WhatsAppOptIn: whatsAppOptIn,
		IsActive:      active,
	})
	return err
}

// ListAgents lists agents, optionally including deactivated ones.
func (s *Service) ListAgents(ctx context.Context, includeInactive bool) ([]*models.Agent, error) {
	return s.Agents.List(ctx, includeInactive)
}

// GetAgent returns the agent by id, or nil when unknown.
func (s *Service) GetAgent(ctx context.Context, id int64) (*models.Agent, error) {
	return s.Agents.GetByID(ctx, id)
}

// SetAgentActive soft-deletes or restores an agent.
func (s *Service) SetAgentActive(ctx context.Context, id int64, active bool) error {
	return s.Agents.SetActive(ctx, id, active)
}

// SetAgentWhatsAppOptIn records whether the agent wants WhatsApp links.
func (s *Service) SetAgentWhatsAppOptIn(ctx context.Context, id int64, optIn bool) error {
	return s.Agents.SetWhatsAppOptIn(ctx, id, optIn)
}
