package handler

import (
	"crypto/subtle"
	"net/http"

	"eventdesk/internal/apperr"
	"eventdesk/internal/auth"
	"eventdesk/internal/planner"
)

type AuthHandler struct {
	Scoped
	Planners     *planner.Service
	Sessions     *auth.SessionJWT
	CookieSecure bool
	// SyncSecret must accompany every /auth/sync call in the X-Sync-Secret
	// header. An empty secret rejects every sync.
	SyncSecret string
}

type syncReq struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (h *AuthHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if !h.trustedCaller(r) {
		writeError(w, r, apperr.ErrUnauthenticated)
		return
	}

	var req syncReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Planners.Sync(r.Context(), planner.SyncInput{
		UID:   req.UID,
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.Sessions.Sign(auth.Session{UID: p.UID, Email: p.Email, Name: p.Name})
	if err != nil {
		writeError(w, r, apperr.Internal(err))
		return
	}
	http.SetCookie(w, auth.SessionCookie(token, h.CookieSecure))
	writeJSON(w, http.StatusOK, map[string]any{"user": p, "token": token})
}

// trustedCaller reports whether the request comes from the identity front
// end, the only party allowed to vouch for an email.
func (h *AuthHandler) trustedCaller(r *http.Request) bool {
	if h.SyncSecret == "" {
		return false
	}
	got := r.Header.Get("X-Sync-Secret")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.SyncSecret)) == 1
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearedCookie(h.CookieSecure))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": p})
}
