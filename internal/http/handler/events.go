package handler

import (
	"net/http"
	"time"

	"eventdesk/internal/event"
)

type EventHandler struct {
	Scoped
	Svc *event.Service
}

type eventReq struct {
	Name        *string            `json:"name"`
	Venue       *string            `json:"venue"`
	Date        *time.Time         `json:"date"`
	Status      *event.Status      `json:"status"`
	InviteModel *event.InviteModel `json:"inviteModel"`
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Svc.List(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req eventReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := event.CreateInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Venue != nil {
		in.Venue = *req.Venue
	}
	if req.Date != nil {
		in.Date = *req.Date
	}
	if req.Status != nil {
		in.Status = *req.Status
	}
	if req.InviteModel != nil {
		in.InviteModel = *req.InviteModel
	}

	e, err := h.Svc.Create(r.Context(), p.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc.Event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req eventReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	e, err := h.Svc.Update(r.Context(), sc.Event, event.Patch{
		Name:        req.Name,
		Venue:       req.Venue,
		Date:        req.Date,
		Status:      req.Status,
		InviteModel: req.InviteModel,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), sc.Event); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}
