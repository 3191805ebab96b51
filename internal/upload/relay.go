// Package upload relays invitation cards to external file storage.
package upload

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"eventdesk/internal/apperr"

	"github.com/rs/zerolog"
)

const (
	MaxFileSize    = 10 << 20
	MaxSegmentLen  = 64
	untitledFolder = "untitled"
)

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Result struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

// Storage is the provider side: folder lookup-or-create, binary upload and
// public sharing.
type Storage interface {
	EnsureFolder(ctx context.Context, parentID, name string) (string, error)
	Put(ctx context.Context, folderID, name, contentType string, body io.Reader) (string, error)
	Share(ctx context.Context, fileID string) (string, error)
}

type Relay struct {
	Storage    Storage
	RootFolder string
	Now        func() time.Time
	Log        zerolog.Logger
}

// Validate rejects a file before any network call is made.
func Validate(f File) error {
	if f.Size <= 0 {
		return apperr.Unprocessable("file is empty")
	}
	if f.Size > MaxFileSize {
		return apperr.Unprocessable("file exceeds 10 MiB")
	}
	if _, ok := allowedTypes[normalizeType(f.ContentType)]; !ok {
		return apperr.Unprocessable("unsupported file type")
	}
	return nil
}

func normalizeType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// FolderPath is the deterministic destination for a planner's event.
func FolderPath(email, eventName string) []string {
	return []string{sanitizeSegment(email), sanitizeSegment(eventName)}
}

func sanitizeSegment(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_' || r == '@' || r == ' ':
			return r
		}
		return '_'
	}, strings.TrimSpace(s))
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) > MaxSegmentLen {
		s = string([]rune(s)[:MaxSegmentLen])
	}
	if strings.Trim(s, "._ ") == "" {
		return untitledFolder
	}
	return s
}

func (r *Relay) Upload(ctx context.Context, email, eventName string, f File) (Result, error) {
	if err := Validate(f); err != nil {
		return Result{}, err
	}
	if r.Storage == nil {
		return Result{}, apperr.Unavailable("uploads are not configured")
	}

	parent := r.RootFolder
	for _, seg := range FolderPath(email, eventName) {
		id, err := r.Storage.EnsureFolder(ctx, parent, seg)
		if err != nil {
			return Result{}, apperr.Upstream("storage folder lookup failed", err)
		}
		parent = id
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	name := fmt.Sprintf("invitation-card-%d%s", now().UTC().Unix(), allowedTypes[normalizeType(f.ContentType)])

	fileID, err := r.Storage.Put(ctx, parent, name, normalizeType(f.ContentType), io.LimitReader(f.Body, MaxFileSize+1))
	if err != nil {
		return Result{}, apperr.Upstream("storage upload failed", err)
	}
	url, err := r.Storage.Share(ctx, fileID)
	if err != nil {
		return Result{}, apperr.Upstream("storage share failed", err)
	}

	r.Log.Info().Str("file_id", fileID).Str("folder_id", parent).Int64("size", f.Size).Msg("invitation card uploaded")
	return Result{URL: url, FileID: fileID}, nil
}
