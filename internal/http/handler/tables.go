package handler

import (
	"net/http"

	"eventdesk/internal/seating"
)

type TableHandler struct {
	Scoped
	Svc *seating.Service
}

type bulkTablesReq struct {
	Count         int  `json:"count"`
	SeatsPerTable *int `json:"seatsPerTable"`
}

type patchTableReq struct {
	Capacity *int    `json:"capacity"`
	Label    *string `json:"label"`
}

func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *TableHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req bulkTablesReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Svc.BulkCreate(r.Context(), sc, req.Count, req.SeatsPerTable)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "tableId", "table")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req patchTableReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.Svc.Update(r.Context(), sc, id, seating.Patch(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "tableId", "table")
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
