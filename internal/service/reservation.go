package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/repository"
)

// Reason identifies why a reservation attempt was refused. It doubles as the
// gate for hiding the reservation form on the public page: the empty reason
// means the submission (or the form) goes through.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotPlanned    Reason = "not_planned"
	ReasonClosed        Reason = "closed"
	ReasonSecure        Reason = "secure"
	ReasonInvalidLink   Reason = "invalid_link"
	ReasonUnauthorized  Reason = "unauthorized"
	ReasonAlready       Reason = "already"
	ReasonNoOffers      Reason = "no_offers"
	ReasonInvalidChoice Reason = "invalid_choice"
	ReasonNothingChosen Reason = "nothing_chosen"
)

// Message returns the user-facing text for the reason. Exactly one of these
// is shown per redirect cycle.
func (r Reason) Message() string {
	switch r {
	case ReasonNotPlanned:
		return "No breakfast is planned for tomorrow."
	case ReasonClosed:
		return "Reservations are closed."
	case ReasonSecure:
		return "Secure access required: use the personal link you received."
	case ReasonInvalidLink:
		return "This link is expired or invalid."
	case ReasonUnauthorized:
		return "This link is not authorized for this breakfast."
	case ReasonAlready:
		return "You have already reserved for tomorrow."
	case ReasonNoOffers:
		return "No offers are defined for tomorrow."
	case ReasonInvalidChoice:
		return "Invalid choice."
	case ReasonNothingChosen:
		return "Pick at least one dish or side, or tell us what you bring."
	default:
		return ""
	}
}

// ReservationRequest carries one submission of the public reservation form.
// MainOfferID zero means no main dish was selected; SideQty maps side offer
// ids to requested quantities.
type ReservationRequest struct {
	Date    time.Time // the target event date
	AgentID int64
	// LinkDate and Token come from the signed link echoed through the form.
	LinkDate string
	Token    string

	Bring       string
	MainOfferID int64
	MainQty     int
	SideQty     map[int64]int
}

// SubmitReservation validates and persists one reservation, running the
// checks in strict order and short-circuiting on the first failure. A
// non-empty Reason is a refusal the UI renders as a flash; a non-nil error is
// an infrastructure failure.
func (s *Service) SubmitReservation(ctx context.Context, req ReservationRequest) (Reason, error) {
	event, err := s.EnsureEvent(ctx, req.Date)
	if err != nil {
		return ReasonNone, err
	}

	if !event.Planned {
		return ReasonNotPlanned, nil
	}
	if !event.Open {
		return ReasonClosed, nil
	}

	// The signed link is the only accepted credential on the public path.
	if req.AgentID == 0 || req.LinkDate == "" || req.Token == "" {
		return ReasonSecure, nil
	}
	// A token is only valid for the event date it was signed for; a link for
	// another day must not be replayable against this event.
	if req.LinkDate != event.Date || !s.signer.Verify(req.AgentID, req.LinkDate, req.Token) {
		return ReasonInvalidLink, nil
	}

	workingIDs, err := s.Shifts.ListWorkingAgentIDs(ctx, event.Date)
	if err != nil {
		return ReasonNone, err
	}
	if !workingIDs[req.AgentID] {
		return ReasonUnauthorized, nil
	}

	// The display name always comes from the registry, never from the form.
	agent, err := s.Agents.GetByID(ctx, req.AgentID)
	if err != nil {
		return ReasonNone, err
	}
	if agent == nil {
		return ReasonInvalidLink, nil
	}
	name := agent.Name

	exists, err := s.Reservations.ExistsForEvent(ctx, event.ID, name)
	if err != nil {
		return ReasonNone, err
	}
	if exists {
		return ReasonAlready, nil
	}

	offers, err := s.Offers.ListByDate(ctx, event.Date)
	if err != nil {
		return ReasonNone, err
	}
	if len(offers) == 0 {
		return ReasonNoOffers, nil
	}
	offersByID := make(map[int64]*models.Offer, len(offers))
	for _, o := range offers {
		offersByID[o.ID] = o
	}

	var lines []models.ReservationLine

	if req.MainOfferID != 0 {
		o := offersByID[req.MainOfferID]
		if o == nil || o.Type != models.OfferTypeMain || !o.IsActive {
			return ReasonInvalidChoice, nil
		}
		lines = append(lines, models.ReservationLine{
			OfferID: o.ID,
			Qty:     o.ClampQty(req.MainQty),
		})
	}

	// Sides: silently drop anything that is not a live side offer, clamp the
	// rest to the per-person cap. Sorted by offer id so persistence order is
	// stable.
	var sides []models.ReservationLine
	for offerID, qty := range req.SideQty {
		if qty <= 0 {
			continue
		}
		o := offersByID[offerID]
		if o == nil || o.Type != models.OfferTypeSide || !o.IsActive {
			continue
		}
		if qty > o.MaxPerPerson {
			qty = o.MaxPerPerson
		}
		sides = append(sides, models.ReservationLine{OfferID: o.ID, Qty: qty})
	}
	sort.Slice(sides, func(i, j int) bool { return sides[i].OfferID < sides[j].OfferID })
	lines = append(lines, sides...)

	// A forged submission can smuggle a second main past the single-choice
	// form; count the resolved lines rather than trusting the input shape.
	mainCount := 0
	for _, line := range lines {
		if o := offersByID[line.OfferID]; o != nil && o.Type == models.OfferTypeMain {
			mainCount++
		}
	}
	if mainCount > 1 {
		return ReasonInvalidChoice, nil
	}

	bring := strings.TrimSpace(req.Bring)
	if len(lines) == 0 && bring == "" {
		return ReasonNothingChosen, nil
	}

	res, err := s.Reservations.Create(ctx, &models.Reservation{
		EventID: event.ID,
		Name:    name,
		Bring:   bring,
	})
	if err != nil {
		// The storage-level uniqueness constraint closes the race between two
		// concurrent submissions; the loser still gets the friendly message.
		if errors.Is(err, repository.ErrDuplicate) {
			return ReasonAlready, nil
		}
		return ReasonNone, err
	}

	if len(lines) > 0 {
		if err := s.Reservations.ReplaceLines(ctx, res.ID, lines); err != nil {
			return ReasonNone, err
		}
	}

	s.logger.Infof("Reservation %d recorded for %q on %s (%d lines)", res.ID, name, event.Date, len(lines))
	return ReasonNone, nil
}

// GateReservation computes the single blocking reason shown on the public
// page, in priority order: not planned > closed > no valid link > already
// reserved > no offers. ReasonNone means the form can be shown.
func GateReservation(event *models.Event, fromLink, alreadyReserved bool, offers ActiveOffers) Reason {
	switch {
	case !event.Planned:
		return ReasonNotPlanned
	case !event.Open:
		return ReasonClosed
	case !fromLink:
		return ReasonSecure
	case alreadyReserved:
		return ReasonAlready
	case offers.Empty():
		return ReasonNoOffers
	default:
		return ReasonNone
	}
}
