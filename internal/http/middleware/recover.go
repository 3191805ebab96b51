package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"eventdesk/internal/apperr"

	"github.com/rs/zerolog/hlog"
)

// Recover turns a handler panic into the usual JSON error body. Aborted
// handlers keep propagating so net/http can drop the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			err := apperr.Internal(fmt.Errorf("panic: %v", rvr))
			hlog.FromRequest(r).Error().
				Err(err).
				Bytes("stack", debug.Stack()).
				Msg("handler panic")

			if r.Header.Get("Connection") == "Upgrade" {
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apperr.StatusOf(err))
			_ = json.NewEncoder(w).Encode(map[string]string{"error": apperr.PublicMessage(err)})
		}()
		next.ServeHTTP(w, r)
	})
}
