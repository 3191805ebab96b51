package handler

import (
	"net/http"

	"eventdesk/internal/overview"
)

type OverviewHandler struct {
	Scoped
	Reporter *overview.Reporter
}

func (h *OverviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.Reporter.Stats(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *OverviewHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reporter.Upcoming(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OverviewHandler) RecentRSVPs(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Reporter.RecentRSVPs(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OverviewHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.Reporter.Dashboard(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
