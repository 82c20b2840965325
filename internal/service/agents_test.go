package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/morningshift/breakfast/internal/service"
)

func TestCreateAgentTrimsInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	agent, err := f.svc.CreateAgent(ctx, "  Sam ", " +33612345678 ", true)
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	if agent.Name != "Sam" || agent.Phone != "+33612345678" {
		t.Fatalf("input not trimmed: name=%q phone=%q", agent.Name, agent.Phone)
	}
	if !agent.IsActive {
		t.Fatal("new agents must start active")
	}
}

func TestCreateAgentReportsAllMissingFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateAgent(ctx, "   ", "", false)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !errors.Is(err, service.ErrAgentNameRequired) {
		t.Fatalf("error should include the missing name: %v", err)
	}
	if !errors.Is(err, service.ErrAgentPhoneRequired) {
		t.Fatalf("error should include the missing phone: %v", err)
	}
}

func TestUpdateAgentValidates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	agent, err := f.svc.CreateAgent(ctx, "Sam", "+33612345678", false)
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}

	if err := f.svc.UpdateAgent(ctx, agent.ID, "", "+33612345678", false, true); err == nil {
		t.Fatal("expected a validation error for the blank name")
	}

	if err := f.svc.UpdateAgent(ctx, agent.ID, "Samuel", "+33698765432", true, true); err != nil {
		t.Fatalf("UpdateAgent failed: %v", err)
	}
	got, err := f.svc.GetAgent(ctx, agent.ID)
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got.Name != "Samuel" || got.Phone != "+33698765432" || !got.WhatsAppOptIn {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestListAgentsFiltersInactive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sam, err := f.svc.CreateAgent(ctx, "Sam", "+33611111111", false)
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	if _, err := f.svc.CreateAgent(ctx, "Alex", "+33622222222", false); err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	if err := f.svc.SetAgentActive(ctx, sam.ID, false); err != nil {
		t.Fatalf("SetAgentActive failed: %v", err)
	}

	active, err := f.svc.ListAgents(ctx, false)
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Alex" {
		t.Fatalf("expected only Alex, got %d agents", len(active))
	}

	all, err := f.svc.ListAgents(ctx, true)
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both agents with includeInactive, got %d", len(all))
	}
}

func TestSetWorkingAgentsReplacesRoster(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, name := range []string{"Sam", "Alex", "Noa"} {
		if _, err := f.svc.CreateAgent(ctx, name, "+33600000000", false); err != nil {
			t.Fatalf("CreateAgent failed: %v", err)
		}
	}

	if err := f.svc.SetWorkingAgents(ctx, testDate, []int64{1, 2}); err != nil {
		t.Fatalf("first SetWorkingAgents failed: %v", err)
	}
	if err := f.svc.SetWorkingAgents(ctx, testDate, []int64{2, 3}); err != nil {
		t.Fatalf("second SetWorkingAgents failed: %v", err)
	}

	ids, err := f.svc.ListWorkingAgentIDs(ctx, testDate)
	if err != nil {
		t.Fatalf("ListWorkingAgentIDs failed: %v", err)
	}
	if ids[1] || !ids[2] || !ids[3] {
		t.Fatalf("roster should be exactly {2,3}, got %v", ids)
	}

	working, err := f.svc.ListWorkingAgents(ctx, testDate)
	if err != nil {
		t.Fatalf("ListWorkingAgents failed: %v", err)
	}
	if len(working) != 2 {
		t.Fatalf("expected 2 working agents, got %d", len(working))
	}
}
