package service

import (
	"context"

	"github.com/morningshift/breakfast/internal/models"
)

// SetWorkingAgents replaces the full roster for the date.
func (s *Service) SetWorkingAgents(ctx context.Context, date string, agentIDs []int64) error {
	if err := s.Shifts.SetWorkingAgents(ctx, date, agentIDs); err != nil {
		return err
	}
	s.logger.Infof("Roster for %s replaced with %d agents", date, len(agentIDs))
	return nil
}

// ListWorkingAgentIDs returns the set of agent ids scheduled for the date.
func (s *Service) ListWorkingAgentIDs(ctx context.Context, date string) (map[int64]bool, error) {
	return s.Shifts.ListWorkingAgentIDs(ctx, date)
}

// ListWorkingAgents returns the active agents scheduled for the date, ordered
// case-insensitively by name.
func (s *Service) ListWorkingAgents(ctx context.Context, date string) ([]*models.Agent, error) {
	return s.Shifts.ListWorkingAgents(ctx, date)
}
