package handler

import (
	"net/http"

	"eventdesk/internal/apperr"
	"eventdesk/internal/jobs"
	"eventdesk/internal/messaging"
)

var errNotConnected = apperr.Invalid("whatsapp is not connected")

type WhatsAppHandler struct {
	Scoped
	Gateway *messaging.Gateway
	Jobs    *jobs.Repo
}

type connectReq struct {
	AccessToken       string `json:"accessToken"`
	PhoneNumberID     string `json:"phoneNumberId"`
	BusinessAccountID string `json:"businessAccountId"`
}

type sendReq struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Test    bool   `json:"test"`
}

type broadcastReq struct {
	Message string `json:"message"`
}

func (h *WhatsAppHandler) Status(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messaging.StatusOf(p))
}

func (h *WhatsAppHandler) Connect(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req connectReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	st, err := h.Gateway.Connect(r.Context(), p, messaging.ConnectInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *WhatsAppHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Gateway.Disconnect(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *WhatsAppHandler) Send(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req sendReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Gateway.Send(r.Context(), p, req.To, req.Message, req.Test)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "messageId": id})
}

// BroadcastInvites queues invites for every pending guest of the event.
func (h *WhatsAppHandler) BroadcastInvites(w http.ResponseWriter, r *http.Request) {
	sc, err := h.event(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req broadcastReq
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if !sc.Planner.WhatsAppConnected() {
		writeError(w, r, errNotConnected)
		return
	}
	j, err := h.Jobs.EnqueueInviteBroadcast(r.Context(), sc, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"jobId": j.ID})
}

func (h *WhatsAppHandler) Job(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := idParam(r, "jobId", "job")
	if err != nil {
		writeError(w, r, err)
		return
	}
	j, err := h.Jobs.Get(r.Context(), p.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}
