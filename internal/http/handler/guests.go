package handler

import (
	"net/http"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guest"
)

type GuestHandler struct {
	Scoped
	Svc *guest.Service
}

type createGuestReq struct {
	FirstName     string              `json:"firstName"`
	LastName      string              `json:"lastName"`
	Phone         *string             `json:"phone"`
	InviteChannel guest.InviteChannel `json:"inviteChannel"`
}

type patchGuestReq struct {
	FirstName  *string           `json:"firstName"`
	LastName   *string           `json:"lastName"`
	Phone      *string           `json:"phone"`
	RSVPStatus *guest.RSVPStatus `json:"rsvpStatus"`
	CheckedIn  *bool             `json:"checkedIn"`
	// 0 clears the seat.
	TableID *uint64 `json:"tableId"`
}

type importReq struct {
	Guests        []guest.ImportRow   `json:"guests"`
	InviteChannel guest.InviteChannel `json:"inviteChannel"`
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var status *guest.RSVPStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := guest.RSVPStatus(v)
		status = &s
	}
	out, err := h.Svc.List(r.Context(), sc, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createGuestReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.Svc.Create(r.Context(), sc, guest.CreateInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		InviteChannel: req.InviteChannel,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "guestId", "guest")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req patchGuestReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := h.Svc.Update(r.Context(), sc, id, guest.Patch{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		RSVPStatus: req.RSVPStatus,
		CheckedIn:  req.CheckedIn,
		TableID:    req.TableID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, id, err := h.child(r, "guestId", "guest")
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

func (h *GuestHandler) Import(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req importReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Guests == nil {
		writeError(w, r, apperr.Invalid("guests is required"))
		return
	}
	res, err := h.Svc.Import(r.Context(), sc, req.Guests, req.InviteChannel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
