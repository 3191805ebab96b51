// Package overview computes the planner dashboard. Every query is read-only
// and independent, so they run concurrently.
package overview

import (
	"context"
	"time"

	"eventdesk/internal/event"
	"eventdesk/internal/guest"
	"eventdesk/internal/staff"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	UpcomingLimit    = 5
	RecentRSVPsLimit = 8
)

type Stats struct {
	TotalEvents     int64 `json:"totalEvents"`
	UpcomingEvents  int64 `json:"upcomingEvents"`
	ConfirmedGuests int64 `json:"confirmedGuests"`
	CheckedInGuests int64 `json:"checkedInGuests"`
	PendingGuests   int64 `json:"pendingGuests"`
	TotalVendors    int64 `json:"totalVendors"`
	// GateCrashers are guests checked in without a confirmed RSVP.
	GateCrashers int64 `json:"gateCrashers"`
}

type RecentRSVP struct {
	GuestID    uint64           `json:"guestId"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	RSVPStatus guest.RSVPStatus `json:"rsvpStatus"`
	RSVPAt     time.Time        `json:"rsvpAt"`
	EventID    uint64           `json:"eventId"`
	EventName  string           `json:"eventName"`
}

type Reporter struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (r *Reporter) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Reporter) ownedEvents(db *gorm.DB, plannerID uint64) *gorm.DB {
	return db.Model(&event.Event{}).Select("id").Where("planner_id = ?", plannerID)
}

// Stats fails as a whole if any single counter fails.
func (r *Reporter) Stats(ctx context.Context, plannerID uint64) (Stats, error) {
	var s Stats
	now := r.now()
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, build func(db *gorm.DB) *gorm.DB) {
		g.Go(func() error {
			return build(r.DB.WithContext(gctx)).Count(dst).Error
		})
	}
	guests := func(db *gorm.DB) *gorm.DB {
		return db.Model(&guest.Guest{}).Where("event_id IN (?)", r.ownedEvents(db, plannerID))
	}

	count(&s.TotalEvents, func(db *gorm.DB) *gorm.DB {
		return db.Model(&event.Event{}).Where("planner_id = ?", plannerID)
	})
	count(&s.UpcomingEvents, func(db *gorm.DB) *gorm.DB {
		return db.Model(&event.Event{}).
			Where("planner_id = ? AND date > ? AND status <> ?", plannerID, now, event.StatusCancelled)
	})
	count(&s.ConfirmedGuests, func(db *gorm.DB) *gorm.DB {
		return guests(db).Where("rsvp_status = ?", guest.RSVPConfirmed)
	})
	count(&s.CheckedInGuests, func(db *gorm.DB) *gorm.DB {
		return guests(db).Where("checked_in = ?", true)
	})
	count(&s.PendingGuests, func(db *gorm.DB) *gorm.DB {
		return guests(db).Where("rsvp_status = ?", guest.RSVPPending)
	})
	count(&s.TotalVendors, func(db *gorm.DB) *gorm.DB {
		return db.Model(&staff.Vendor{}).Where("event_id IN (?)", r.ownedEvents(db, plannerID))
	})
	count(&s.GateCrashers, func(db *gorm.DB) *gorm.DB {
		return guests(db).Where("checked_in = ? AND rsvp_status <> ?", true, guest.RSVPConfirmed)
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// Upcoming returns the soonest non-cancelled events that have not started.
func (r *Reporter) Upcoming(ctx context.Context, plannerID uint64) ([]event.Event, error) {
	out := []event.Event{}
	err := r.DB.WithContext(ctx).
		Where("planner_id = ? AND date > ? AND status <> ?", plannerID, r.now(), event.StatusCancelled).
		Order("date asc").Order("id asc").
		Limit(UpcomingLimit).
		Find(&out).Error
	return out, err
}

func (r *Reporter) RecentRSVPs(ctx context.Context, plannerID uint64) ([]RecentRSVP, error) {
	out := []RecentRSVP{}
	err := r.DB.WithContext(ctx).
		Table("guests").
		Select("guests.id AS guest_id, guests.first_name, guests.last_name, guests.rsvp_status, guests.rsvp_at, events.id AS event_id, events.name AS event_name").
		Joins("JOIN events ON events.id = guests.event_id").
		Where("events.planner_id = ? AND guests.rsvp_at IS NOT NULL", plannerID).
		Order("guests.rsvp_at desc").Order("guests.id desc").
		Limit(RecentRSVPsLimit).
		Scan(&out).Error
	return out, err
}

// Dashboard bundles the three feeds for one round trip.
type Dashboard struct {
	Stats       Stats         `json:"stats"`
	Upcoming    []event.Event `json:"upcoming"`
	RecentRSVPs []RecentRSVP  `json:"recentRsvps"`
}

func (r *Reporter) Dashboard(ctx context.Context, plannerID uint64) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Stats, err = r.Stats(gctx, plannerID)
		return err
	})
	g.Go(func() (err error) {
		d.Upcoming, err = r.Upcoming(gctx, plannerID)
		return err
	})
	g.Go(func() (err error) {
		d.RecentRSVPs, err = r.RecentRSVPs(gctx, plannerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
