package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"eventdesk/internal/apperr"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeError sends only the public message. Anything that maps to 5xx is
// logged with its cause.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": apperr.PublicMessage(err)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("request body is required")
		}
		return apperr.Invalid("bad json")
	}
	return nil
}

// idParam parses a path id. An id that cannot exist is reported the same
// way as one that does not.
func idParam(r *http.Request, name, kind string) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NotFound(kind)
	}
	return id, nil
}
