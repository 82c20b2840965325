package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/morningshift/breakfast/internal/metrics"
	"github.com/morningshift/breakfast/internal/models"
	"github.com/morningshift/breakfast/internal/service"
)

// homeData is everything home.html needs for one render.
type homeData struct {
	Event        *models.Event
	Offers       service.ActiveOffers
	Reservations []*models.Reservation
	Flash        *Flash

	// Signed-link prefill. The name is pinned when the link checks out.
	PrefillName string
	NameLocked  bool
	AgentID     string
	LinkDate    string
	Token       string

	CanReserve bool
	Message    string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
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

	data := homeData{
		Event:        event,
		Offers:       offers,
		Reservations: reservations,
		Flash:        popFlash(w, r),
	}

	// Only a token bound to the displayed event unlocks the form; a link for
	// another day is ignored rather than rejected loudly.
	q := r.URL.Query()
	if agentRaw, d, k := q.Get("agent"), q.Get("d"), q.Get("k"); agentRaw != "" && d != "" && k != "" {
		if agentID, err := strconv.ParseInt(agentRaw, 10, 64); err == nil &&
			d == event.Date && s.svc.Signer().Verify(agentID, d, k) {
			agent, err := s.svc.GetAgent(ctx, agentID)
			if err != nil {
				s.serverError(w, err, "failed to load agent")
				return
			}
			if agent != nil {
				data.PrefillName = agent.Name
				data.NameLocked = true
				data.AgentID = agentRaw
				data.LinkDate = d
				data.Token = k
			}
		}
	}

	alreadyReserved := false
	if data.NameLocked {
		alreadyReserved, err = s.svc.Reservations.ExistsForEvent(ctx, event.ID, data.PrefillName)
		if err != nil {
			s.serverError(w, err, "failed to check existing reservation")
			return
		}
	}

	reason := service.GateReservation(event, data.NameLocked, alreadyReserved, offers)
	data.CanReserve = reason == service.ReasonNone
	data.Message = reason.Message()

	s.render(w, "home.html", data)
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req := service.ReservationRequest{
		Date:     service.Tomorrow(),
		AgentID:  formID(r, "agent"),
		LinkDate: strings.TrimSpace(r.PostFormValue("d")),
		Token:    strings.TrimSpace(r.PostFormValue("k")),
		Bring:    r.PostFormValue("bring"),
		SideQty:  map[int64]int{},
	}

	if choice := strings.TrimSpace(r.PostFormValue("main_choice")); choice != "" {
		id, err := strconv.ParseInt(choice, 10, 64)
		if err != nil {
			// A non-numeric choice is a forged form; let the engine refuse it.
			id = -1
		}
		req.MainOfferID = id
		req.MainQty = formInt(r, "main_qty_"+choice, 1)
	}

	for key, vals := range r.PostForm {
		raw, ok := strings.CutPrefix(key, "offer_")
		if !ok || len(vals) == 0 {
			continue
		}
		offerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(vals[0]))
		if err != nil {
			continue
		}
		req.SideQty[offerID] = qty
	}

	reason, err := s.svc.SubmitReservation(r.Context(), req)
	if err != nil {
		s.logger.WithError(err).Error("failed to submit reservation")
		setFlash(w, "Something went wrong, please retry.", "error")
		redirect(w, r, "/")
		return
	}

	outcome := "success"
	if reason != service.ReasonNone {
		outcome = string(reason)
	}
	metrics.RecordReservation(outcome)

	// Keep the signed link in the redirect once it is known to be valid, so
	// the form stays unlocked after the round trip.
	target := "/"
	switch reason {
	case service.ReasonNone, service.ReasonAlready, service.ReasonNoOffers,
		service.ReasonInvalidChoice, service.ReasonNothingChosen:
		target = fmt.Sprintf("/?agent=%d&d=%s&k=%s",
			req.AgentID, url.QueryEscape(req.LinkDate), url.QueryEscape(req.Token))
	}

	switch reason {
	case service.ReasonNone:
		setFlash(w, "Reservation saved!", "success")
	case service.ReasonAlready, service.ReasonNothingChosen:
		setFlash(w, reason.Message(), "warning")
	default:
		setFlash(w, reason.Message(), "error")
	}

	redirect(w, r, target)
}
