package handler

import (
	"errors"
	"net/http"
	"strings"

	"eventdesk/internal/apperr"
	"eventdesk/internal/upload"
)

type UploadHandler struct {
	Scoped
	Relay *upload.Relay
}

const multipartOverhead = 1 << 20

// InvitationCard takes a multipart form with "file" and "eventName".
func (h *UploadHandler) InvitationCard(w http.ResponseWriter, r *http.Request) {
	p, err := h.planner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(upload.MaxFileSize + multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, r, apperr.Unprocessable("file exceeds 10 MiB"))
			return
		}
		writeError(w, r, apperr.Invalid("multipart form with a file is required"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Invalid("file is required"))
		return
	}
	defer f.Close()

	eventName := strings.TrimSpace(r.FormValue("eventName"))
	res, err := h.Relay.Upload(r.Context(), p.Email, eventName, upload.File{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        f,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
