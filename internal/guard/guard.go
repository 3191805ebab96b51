// Package guard resolves the tenant ownership chain Planner -> Event -> child
// resource. Every scoped operation goes through it before touching data.
package guard

import (
	"context"
	"errors"
	"strings"

	"eventdesk/internal/apperr"
	"eventdesk/internal/auth"
	"eventdesk/internal/event"
	"eventdesk/internal/planner"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope is a verified (planner, event) pair. Only Guard produces one.
type Scope struct {
	Planner *planner.Planner
	Event   *event.Event
}

func (s Scope) valid() bool {
	return s.Planner != nil && s.Event != nil && s.Event.PlannerID == s.Planner.ID
}

type Guard struct {
	DB *gorm.DB
}

// Planner is step 1: session -> planner row by email.
func (g *Guard) Planner(ctx context.Context, sess *auth.Session) (*planner.Planner, error) {
	if sess == nil {
		return nil, apperr.ErrUnauthenticated
	}
	email := strings.TrimSpace(strings.ToLower(sess.Email))
	if email == "" {
		return nil, apperr.ErrUnauthenticated
	}

	var p planner.Planner
	if err := g.DB.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return &p, nil
}

// Event runs steps 1 and 2. A missing event and another planner's event
// produce the same error.
func (g *Guard) Event(ctx context.Context, sess *auth.Session, eventID uint64) (Scope, error) {
	p, err := g.Planner(ctx, sess)
	if err != nil {
		return Scope{}, err
	}
	return g.OwnedEvent(ctx, p, eventID)
}

// OwnedEvent is step 2 for a planner that is already resolved.
func (g *Guard) OwnedEvent(ctx context.Context, p *planner.Planner, eventID uint64) (Scope, error) {
	if p == nil {
		return Scope{}, apperr.ErrUnauthenticated
	}
	var e event.Event
	err := g.DB.WithContext(ctx).
		Where("id = ? AND planner_id = ?", eventID, p.ID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Scope{}, apperr.NotFound("event")
		}
		return Scope{}, err
	}
	return Scope{Planner: p, Event: &e}, nil
}

// Child is step 3: the resource with id must belong to the scoped event.
// T is any model with id and event_id columns.
func Child[T any](ctx context.Context, db *gorm.DB, sc Scope, id uint64, kind string) (*T, error) {
	if !sc.valid() {
		return nil, apperr.Internal(errors.New("guard: unscoped child lookup"))
	}
	var out T
	err := db.WithContext(ctx).
		Where("id = ? AND event_id = ?", id, sc.Event.ID).
		First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(kind)
		}
		return nil, err
	}
	return &out, nil
}

// Resolve runs all three steps for one request.
func Resolve[T any](ctx context.Context, g *Guard, sess *auth.Session, eventID, id uint64, kind string) (Scope, *T, error) {
	sc, err := g.Event(ctx, sess, eventID)
	if err != nil {
		return Scope{}, nil, err
	}
	child, err := Child[T](ctx, g.DB, sc, id, kind)
	if err != nil {
		return Scope{}, nil, err
	}
	return sc, child, nil
}

// Lock takes a row lock on the scoped event inside tx, serializing writers
// that derive values from existing children. SQLite ignores the clause.
func Lock(tx *gorm.DB, sc Scope) (*event.Event, error) {
	if !sc.valid() {
		return nil, apperr.Internal(errors.New("guard: unscoped lock"))
	}
	var e event.Event
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND planner_id = ?", sc.Event.ID, sc.Planner.ID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event")
		}
		return nil, err
	}
	return &e, nil
}
