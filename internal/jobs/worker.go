package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventdesk/internal/event"
	"eventdesk/internal/guest"
	"eventdesk/internal/planner"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Sender delivers one WhatsApp message for a planner.
type Sender interface {
	Send(ctx context.Context, p *planner.Planner, to, body string, test bool) (string, error)
}

type Worker struct {
	ID            string
	Repo          *Repo
	DB            *gorm.DB
	Sender        Sender
	PublicBaseURL string
	Interval      time.Duration
	Log           zerolog.Logger
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.Log.Info().Str("worker_id", w.ID).Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			w.Log.Info().Str("worker_id", w.ID).Msg("worker stopped")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.Log.Error().Err(err).Msg("worker claim error")
			}
		}
	}
}

// RunOnce claims and handles at most one job. It reports whether a job ran.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.Repo.Claim(ctx, w.ID)
	if err != nil || job == nil {
		return false, err
	}
	w.handle(ctx, job)
	return true, nil
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	log := w.Log.With().Uint64("job_id", job.ID).Str("type", job.Type).Logger()

	switch job.Type {
	case TypeInviteBroadcast:
		w.handleInviteBroadcast(ctx, job, log)
	default:
		log.Warn().Msg("unknown job type")
		w.finish(ctx, log, job.ID, StatusFailed, 0, 0, ptrTo("unknown job type"))
	}
}

func (w *Worker) handleInviteBroadcast(ctx context.Context, job *Job, log zerolog.Logger) {
	var p invitePayload
	if err := json.Unmarshal([]byte(job.Payload), &p); err != nil {
		w.finish(ctx, log, job.ID, StatusFailed, 0, 0, ptrTo("bad payload"))
		return
	}

	db := w.DB.WithContext(ctx)
	// Bookkeeping must land even when shutdown cancels ctx mid-broadcast.
	record := w.DB.WithContext(context.WithoutCancel(ctx))

	var pl planner.Planner
	var ev event.Event
	err := db.Where("id = ?", job.PlannerID).First(&pl).Error
	if err == nil {
		err = db.Where("id = ? AND planner_id = ?", job.EventID, job.PlannerID).First(&ev).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// event or planner deleted after enqueue; nothing to send
		w.finish(ctx, log, job.ID, StatusDone, 0, 0, nil)
		return
	}
	if err != nil {
		w.finish(ctx, log, job.ID, StatusFailed, 0, 0, ptrTo("db read error"))
		return
	}

	var guests []guest.Guest
	err = db.Where("event_id = ? AND phone IS NOT NULL AND phone <> '' AND rsvp_status = ? AND invited_at IS NULL", ev.ID, guest.RSVPPending).
		Order("id asc").
		Find(&guests).Error
	if err != nil {
		w.finish(ctx, log, job.ID, StatusFailed, 0, 0, ptrTo("db read error"))
		return
	}

	sent, failed := 0, 0
	var firstErr error
	interrupted := false
	for i := range guests {
		g := &guests[i]
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		if _, err := w.Sender.Send(ctx, &pl, *g.Phone, w.inviteText(&ev, g, p.Message), false); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++

		now := time.Now().UTC()
		if err := record.Model(&guest.Guest{}).Where("id = ?", g.ID).Updates(map[string]any{
			"invite_channel": guest.ChannelWhatsApp,
			"invited_at":     now,
		}).Error; err != nil {
			log.Error().Err(err).Uint64("guest_id", g.ID).Msg("record invite")
		}
	}

	log.Info().Int("sent", sent).Int("failed", failed).Int("guests", len(guests)).Msg("invite broadcast finished")

	switch {
	case firstErr != nil && sent == 0:
		w.finish(ctx, log, job.ID, StatusFailed, sent, failed, ptrTo(firstErr.Error()))
	case firstErr != nil:
		msg := fmt.Sprintf("%d of %d sends failed: %v", failed, sent+failed, firstErr)
		w.finish(ctx, log, job.ID, StatusDone, sent, failed, &msg)
	case interrupted:
		// guests left uninvited are picked up by the next broadcast
		msg := fmt.Sprintf("stopped after %d of %d guests", sent, len(guests))
		w.finish(ctx, log, job.ID, StatusDone, sent, failed, &msg)
	default:
		w.finish(ctx, log, job.ID, StatusDone, sent, failed, nil)
	}
}

// finish records the outcome on a context that outlives shutdown.
func (w *Worker) finish(ctx context.Context, log zerolog.Logger, id uint64, st Status, sent, failed int, lastErr *string) {
	if err := w.Repo.finish(context.WithoutCancel(ctx), id, st, sent, failed, lastErr); err != nil {
		log.Error().Err(err).Str("status", string(st)).Msg("record job outcome")
	}
}

func ptrTo(s string) *string { return &s }

func (w *Worker) inviteText(ev *event.Event, g *guest.Guest, custom string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", g.FullName())
	if custom = strings.TrimSpace(custom); custom != "" {
		b.WriteString(custom)
	} else {
		fmt.Fprintf(&b, "You are invited to %s", ev.Name)
		if ev.Venue != "" {
			fmt.Fprintf(&b, " at %s", ev.Venue)
		}
		fmt.Fprintf(&b, " on %s.", ev.Date.Format("Monday, 2 January 2006"))
	}

	base := strings.TrimRight(w.PublicBaseURL, "/")
	if base != "" {
		if g.InviteToken != nil {
			fmt.Fprintf(&b, "\n\nRSVP: %s/rsvp/%s", base, *g.InviteToken)
		} else {
			fmt.Fprintf(&b, "\n\nRSVP: %s/events/%d/rsvp", base, ev.ID)
		}
	}
	return b.String()
}
