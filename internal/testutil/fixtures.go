package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"eventdesk/internal/auth"
	"eventdesk/internal/event"
	"eventdesk/internal/planner"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var uidCounter atomic.Int64

func NewPlanner(t *testing.T, db *gorm.DB, email string) *planner.Planner {
	t.Helper()
	p := &planner.Planner{
		UID:   fmt.Sprintf("uid-%d", uidCounter.Add(1)),
		Email: email,
		Name:  email,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SessionFor(p *planner.Planner) *auth.Session {
	return &auth.Session{UID: p.UID, Email: p.Email, Name: p.Name}
}

// Event options
type EventOption func(*event.Event)

func WithInviteModel(m event.InviteModel) EventOption {
	return func(e *event.Event) {
		e.InviteModel = m
	}
}

func WithStatus(s event.Status) EventOption {
	return func(e *event.Event) {
		e.Status = s
	}
}

func WithDate(d time.Time) EventOption {
	return func(e *event.Event) {
		e.Date = d.UTC()
	}
}

func WithName(name string) EventOption {
	return func(e *event.Event) {
		e.Name = name
	}
}

func NewEvent(t *testing.T, db *gorm.DB, plannerID uint64, opts ...EventOption) *event.Event {
	t.Helper()
	e := &event.Event{
		PlannerID:   plannerID,
		Name:        "Wedding",
		Venue:       "Eko Hotel",
		Date:        time.Now().UTC().AddDate(0, 1, 0),
		Status:      event.StatusPublished,
		InviteModel: event.InviteOpen,
	}
	for _, opt := range opts {
		opt(e)
	}
	require.NoError(t, db.Create(e).Error)
	return e
}
