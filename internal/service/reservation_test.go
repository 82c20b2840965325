package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/service"
)

var testDay = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

const testDate = "2025-06-10"

// seedReservableEvent prepares a planned+open event for testDate with agent
// Sam (#1) on the roster, one active main "Omelette" (max 1) and one active
// side "Toast" (max 3, unit "slice"). Returns the main and side offer ids.
func seedReservableEvent(t *testing.T, f *fixture) (mainID, sideID int64) {
	t.Helper()
	ctx := context.Background()

	if _, err := f.svc.EnsureEvent(ctx, testDay); err != nil {
		t.Fatalf("ensure event: %v", err)
	}

	agent, err := f.svc.CreateAgent(ctx, "Sam", "+33600000001", true)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	if err := f.svc.SetWorkingAgents(ctx, testDate, []int64{agent.ID}); err != nil {
		t.Fatalf("set roster: %v", err)
	}

	if err := f.recipes.Upsert(ctx, "Omelette"); err != nil {
		t.Fatalf("add recipe: %v", err)
	}
	if err := f.foods.Upsert(ctx, "Toast", "slice"); err != nil {
		t.Fatalf("add food: %v", err)
	}
	if err := f.svc.AddMainOffer(ctx, testDate, 1, 1); err != nil {
		t.Fatalf("add main offer: %v", err)
	}
	if err := f.svc.AddSideOffer(ctx, testDate, 1, 3); err != nil {
		t.Fatalf("add side offer: %v", err)
	}

	offers, err := f.svc.ListActiveOffers(ctx, testDate)
	if err != nil {
		t.Fatalf("list offers: %v", err)
	}
	if len(offers.Mains) != 1 || len(offers.Sides) != 1 {
		t.Fatalf("expected 1 main and 1 side, got %d/%d", len(offers.Mains), len(offers.Sides))
	}
	return offers.Mains[0].ID, offers.Sides[0].ID
}

func validRequest(f *fixture, mainID, sideID int64) service.ReservationRequest {
	return service.ReservationRequest{
		Date:        testDay,
		AgentID:     1,
		LinkDate:    testDate,
		Token:       f.signer.Sign(1, testDate),
		Bring:       "juice",
		MainOfferID: mainID,
		MainQty:     1,
		SideQty:     map[int64]int{sideID: 5},
	}
}

func TestSubmitReservationSuccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	reason, err := f.svc.SubmitReservation(ctx, validRequest(f, mainID, sideID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonNone {
		t.Fatalf("expected success, got reason %q", reason)
	}

	event, _ := f.events.GetByDate(ctx, testDate)
	reservations, err := f.svc.ListReservations(ctx, event.ID)
	if err != nil {
		t.Fatalf("list reservations: %v", err)
	}
	if len(reservations) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(reservations))
	}

	res := reservations[0]
	if res.Name != "Sam" {
		t.Fatalf("expected canonical name Sam, got %q", res.Name)
	}
	if res.Bring != "juice" {
		t.Fatalf("expected bring=juice, got %q", res.Bring)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(res.Lines))
	}
	if res.Lines[0].OfferID != mainID || res.Lines[0].Qty != 1 {
		t.Fatalf("expected main line (%d, 1), got (%d, %d)", mainID, res.Lines[0].OfferID, res.Lines[0].Qty)
	}
	// Side quantity of 5 must be clamped to the cap of 3.
	if res.Lines[1].OfferID != sideID || res.Lines[1].Qty != 3 {
		t.Fatalf("expected side line (%d, 3), got (%d, %d)", sideID, res.Lines[1].OfferID, res.Lines[1].Qty)
	}
}

func TestSubmitReservationNotPlanned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	event, _ := f.events.GetByDate(ctx, testDate)
	if err := f.events.SetPlanned(ctx, event.ID, false); err != nil {
		t.Fatalf("set planned: %v", err)
	}

	reason, err := f.svc.SubmitReservation(ctx, validRequest(f, mainID, sideID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonNotPlanned {
		t.Fatalf("expected not_planned, got %q", reason)
	}
}

func TestSubmitReservationClosed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	if err := f.svc.ToggleEventOpen(ctx, testDay); err != nil {
		t.Fatalf("toggle open: %v", err)
	}

	reason, err := f.svc.SubmitReservation(ctx, validRequest(f, mainID, sideID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonClosed {
		t.Fatalf("expected closed, got %q", reason)
	}
}

func TestSubmitReservationLinkChecks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	tests := []struct {
		name   string
		mutate func(*service.ReservationRequest)
		want   service.Reason
	}{
		{
			"missing token", func(r *service.ReservationRequest) { r.Token = "" },
			service.ReasonSecure,
		},
		{
			"missing agent", func(r *service.ReservationRequest) { r.AgentID = 0 },
			service.ReasonSecure,
		},
		{
			"forged token", func(r *service.ReservationRequest) { r.Token = "deadbeef" },
			service.ReasonInvalidLink,
		},
		{
			"token for another date", func(r *service.ReservationRequest) {
				r.LinkDate = "2025-06-11"
				r.Token = f.signer.Sign(1, "2025-06-11")
			},
			service.ReasonInvalidLink,
		},
		{
			"token for another agent", func(r *service.ReservationRequest) {
				r.Token = f.signer.Sign(2, testDate)
			},
			service.ReasonInvalidLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(f, mainID, sideID)
			tt.mutate(&req)
			reason, err := f.svc.SubmitReservation(ctx, req)
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if reason != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, reason)
			}
		})
	}
}

func TestSubmitReservationNotOnRoster(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	// Valid link for an agent who is not scheduled that day.
	other, err := f.svc.CreateAgent(ctx, "Alex", "+33600000002", false)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}

	req := validRequest(f, mainID, sideID)
	req.AgentID = other.ID
	req.Token = f.signer.Sign(other.ID, testDate)

	reason, err := f.svc.SubmitReservation(ctx, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonUnauthorized {
		t.Fatalf("expected unauthorized, got %q", reason)
	}
}

func TestSubmitReservationDuplicateName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	// An earlier reservation stored with different case and padding must
	// still block agent Sam.
	event, _ := f.events.GetByDate(ctx, testDate)
	if _, err := f.reservations.Create(ctx, &models.Reservation{
		EventID: event.ID,
		Name:    "  sAm ",
	}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	reason, err := f.svc.SubmitReservation(ctx, validRequest(f, mainID, sideID))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonAlready {
		t.Fatalf("expected already, got %q", reason)
	}
}

func TestSubmitReservationTwiceRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	if reason, err := f.svc.SubmitReservation(ctx, validRequest(f, mainID, sideID)); err != nil || reason != service.ReasonNone {
		t.Fatalf("first submit failed: reason=%q err=%v", reason, err)
	}

	reason, err := f.svc.SubmitReservation(ctx, validRequest(f, mainID, sideID))
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if reason != service.ReasonAlready {
		t.Fatalf("expected already, got %q", reason)
	}
}

func TestSubmitReservationNoOffers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.EnsureEvent(ctx, testDay); err != nil {
		t.Fatalf("ensure event: %v", err)
	}
	agent, err := f.svc.CreateAgent(ctx, "Sam", "+33600000001", true)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	if err := f.svc.SetWorkingAgents(ctx, testDate, []int64{agent.ID}); err != nil {
		t.Fatalf("set roster: %v", err)
	}

	req := service.ReservationRequest{
		Date:     testDay,
		AgentID:  agent.ID,
		LinkDate: testDate,
		Token:    f.signer.Sign(agent.ID, testDate),
		Bring:    "jam",
	}

	reason, err := f.svc.SubmitReservation(ctx, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonNoOffers {
		t.Fatalf("expected no_offers, got %q", reason)
	}
}

func TestSubmitReservationForgedMainChoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, sideID := seedReservableEvent(t, f)

	// A main selection pointing at a SIDE offer id must be refused outright,
	// not silently dropped.
	req := validRequest(f, 0, sideID)
	req.MainOfferID = sideID
	req.MainQty = 1

	reason, err := f.svc.SubmitReservation(ctx, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonInvalidChoice {
		t.Fatalf("expected invalid_choice, got %q", reason)
	}

	event, _ := f.events.GetByDate(ctx, testDate)
	reservations, _ := f.svc.ListReservations(ctx, event.ID)
	if len(reservations) != 0 {
		t.Fatalf("expected no persisted reservation, got %d", len(reservations))
	}
}

func TestSubmitReservationNothingChosen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, sideID := seedReservableEvent(t, f)

	req := validRequest(f, 0, sideID)
	req.SideQty = nil
	req.Bring = "   "

	reason, err := f.svc.SubmitReservation(ctx, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonNothingChosen {
		t.Fatalf("expected nothing_chosen, got %q", reason)
	}
}

func TestSubmitReservationBringOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, sideID := seedReservableEvent(t, f)

	req := validRequest(f, 0, sideID)
	req.SideQty = nil
	req.Bring = "croissants"

	reason, err := f.svc.SubmitReservation(ctx, req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reason != service.ReasonNone {
		t.Fatalf("expected success, got %q", reason)
	}

	event, _ := f.events.GetByDate(ctx, testDate)
	reservations, _ := f.svc.ListReservations(ctx, event.ID)
	if len(reservations) != 1 || len(reservations[0].Lines) != 0 {
		t.Fatalf("expected one reservation with no lines")
	}
}

func TestSubmitReservationMainQtyClamping(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	// Raise the main cap to 2, then ask for 5: persisted qty must be 2.
	if err := f.svc.UpdateOfferMax(ctx, mainID, 2); err != nil {
		t.Fatalf("update max: %v", err)
	}

	req := validRequest(f, mainID, sideID)
	req.MainQty = 5
	req.SideQty = nil

	reason, err := f.svc.SubmitReservation(ctx, req)
	if err != nil || reason != service.ReasonNone {
		t.Fatalf("submit failed: reason=%q err=%v", reason, err)
	}

	event, _ := f.events.GetByDate(ctx, testDate)
	reservations, _ := f.svc.ListReservations(ctx, event.ID)
	if len(reservations) != 1 || len(reservations[0].Lines) != 1 {
		t.Fatalf("expected one reservation with one line")
	}
	if got := reservations[0].Lines[0].Qty; got != 2 {
		t.Fatalf("expected main qty clamped to 2, got %d", got)
	}
}

func TestSubmitReservationMainQtyDefaultsToOne(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	req := validRequest(f, mainID, sideID)
	req.MainQty = 0
	req.SideQty = nil

	reason, err := f.svc.SubmitReservation(ctx, req)
	if err != nil || reason != service.ReasonNone {
		t.Fatalf("submit failed: reason=%q err=%v", reason, err)
	}

	event, _ := f.events.GetByDate(ctx, testDate)
	reservations, _ := f.svc.ListReservations(ctx, event.ID)
	if got := reservations[0].Lines[0].Qty; got != 1 {
		t.Fatalf("expected main qty defaulted to 1, got %d", got)
	}
}

func TestSubmitReservationDropsInvalidSides(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mainID, sideID := seedReservableEvent(t, f)

	// Deactivate the side: its quantity must be silently dropped while the
	// main line goes through.
	if err := f.svc.SetOfferActive(ctx, sideID, false); err != nil {
		t.Fatalf("deactivate side: %v", err)
	}

	req := validRequest(f, mainID, sideID)
	req.SideQty = map[int64]int{sideID: 2, 999: 1}

	reason, err := f.svc.SubmitReservation(ctx, req)
	if err != nil || reason != service.ReasonNone {
		t.Fatalf("submit failed: reason=%q err=%v", reason, err)
	}

	event, _ := f.events.GetByDate(ctx, testDate)
	reservations, _ := f.svc.ListReservations(ctx, event.ID)
	if len(reservations[0].Lines) != 1 || reservations[0].Lines[0].OfferID != mainID {
		t.Fatalf("expected only the main line to survive, got %+v", reservations[0].Lines)
	}
}

func TestGateReservationPriority(t *testing.T) {
	offers := service.ActiveOffers{}
	openEvent := &models.Event{Open: true, Planned: true}

	tests := []struct {
		name     string
		event    *models.Event
		fromLink bool
		already  bool
		offers   service.ActiveOffers
		want     service.Reason
	}{
		{"not planned wins", &models.Event{Open: false, Planned: false}, false, true, offers, service.ReasonNotPlanned},
		{"closed next", &models.Event{Open: false, Planned: true}, false, true, offers, service.ReasonClosed},
		{"secure next", openEvent, false, true, offers, service.ReasonSecure},
		{"already next", openEvent, true, true, offers, service.ReasonAlready},
		{"no offers next", openEvent, true, false, offers, service.ReasonNoOffers},
		{
			"reservable",
			openEvent, true, false,
			service.ActiveOffers{Mains: []*models.Offer{{ID: 1}}},
			service.ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.GateReservation(tt.event, tt.fromLink, tt.already, tt.offers)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
