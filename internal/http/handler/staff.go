package handler

import (
	"net/http"

	"eventdesk/internal/staff"
)

type UsherHandler struct {
	Scoped
	Svc *staff.UsherService
}

type usherReq struct {
	Name  *string          `json:"name"`
	Phone *string          `json:"phone"`
	Role  *staff.UsherRole `json:"role"`
}

func (h *UsherHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *UsherHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req usherReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := staff.UsherInput{Phone: req.Phone}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Role != nil {
		in.Role = *req.Role
	}
	u, err := h.Svc.Create(r.Context(), sc, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UsherHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "usherId", "usher")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req usherReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Svc.Update(r.Context(), sc, id, staff.UsherPatch(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UsherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "usherId", "usher")
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

type VendorHandler struct {
	Scoped
	Svc *staff.VendorService
}

type vendorReq struct {
	Name                *string           `json:"name"`
	ContactName         *string           `json:"contactName"`
	Email               *string           `json:"email"`
	Phone               *string           `json:"phone"`
	Role                *staff.VendorRole `json:"role"`
	Notes               *string           `json:"notes"`
	CanOverrideCapacity *bool             `json:"canOverrideCapacity"`
}

func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req vendorReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := staff.VendorInput{
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Notes:       req.Notes,
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Role != nil {
		in.Role = *req.Role
	}
	if req.CanOverrideCapacity != nil {
		in.CanOverrideCapacity = *req.CanOverrideCapacity
	}
	v, err := h.Svc.Create(r.Context(), sc, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VendorHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "vendorId", "vendor")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req vendorReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.Svc.Update(r.Context(), sc, id, staff.VendorPatch(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VendorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "vendorId", "vendor")
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
