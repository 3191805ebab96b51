package handler

import (
	"net/http"

	"eventdesk/internal/menu"
)

type MenuHandler struct {
	Scoped
	Svc *menu.Service
}

type createMenuReq struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type patchMenuReq struct {
	Category    *string `json:"category"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	SortOrder   *int    `json:"sortOrder"`
}

func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Svc.List(r.Context(), sc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createMenuReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Svc.Create(r.Context(), sc, menu.CreateInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "itemId", "menu item")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req patchMenuReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Svc.Update(r.Context(), sc, id, menu.Patch(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "itemId", "menu item")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), sc, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}
