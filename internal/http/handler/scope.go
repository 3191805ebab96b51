package handler

import (
	"net/http"

	"eventdesk/internal/auth"
	"eventdesk/internal/guard"
	"eventdesk/internal/planner"
)

// Scoped gives every resource handler the same ownership checks.
type Scoped struct {
	Guard *guard.Guard
}

func (s Scoped) planner(r *http.Request) (*planner.Planner, error) {
	return s.Guard.Planner(r.Context(), auth.SessionFromContext(r.Context()))
}

// event runs guard steps 1 and 2 for the {eventId} in the path.
func (s Scoped) event(r *http.Request) (guard.Scope, error) {
	sess := auth.SessionFromContext(r.Context())
	p, err := s.Guard.Planner(r.Context(), sess)
	if err != nil {
		return guard.Scope{}, err
	}
	eventID, err := idParam(r, "eventId", "event")
	if err != nil {
		return guard.Scope{}, err
	}
	return s.Guard.OwnedEvent(r.Context(), p, eventID)
}

// child resolves {eventId} and then the child id named by param, so a bad
// child id never short-circuits the event check.
func (s Scoped) child(r *http.Request, param, kind string) (guard.Scope, uint64, error) {
	sc, err := s.event(r)
	if err != nil {
		return guard.Scope{}, 0, err
	}
	id, err := idParam(r, param, kind)
	if err != nil {
		return guard.Scope{}, 0, err
	}
	return sc, id, nil
}
