package guest

import (
	"context"
	"strings"
	"time"

	"eventdesk/internal/apperr"
	"eventdesk/internal/event"
	"eventdesk/internal/guard"
	"eventdesk/internal/seating"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

type CreateInput struct {
	FirstName     string
	LastName      string
	Phone         *string
	InviteChannel InviteChannel
}

// Patch fields left nil are not touched.
type Patch struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	RSVPStatus *RSVPStatus
	CheckedIn  *bool
	// TableID of 0 clears the seat assignment.
	TableID *uint64
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) List(ctx context.Context, sc guard.Scope, status *RSVPStatus) ([]Guest, error) {
	q := s.DB.WithContext(ctx).Where("event_id = ?", sc.Event.ID)
	if status != nil {
		if !status.Valid() {
			return nil, apperr.Invalid("invalid rsvp status")
		}
		q = q.Where("rsvp_status = ?", *status)
	}

	out := []Guest{}
	err := q.Order("created_at desc").Order("id desc").Find(&out).Error
	return out, err
}

func (s *Service) Create(ctx context.Context, sc guard.Scope, in CreateInput) (*Guest, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, apperr.Invalid("firstName and lastName are required")
	}
	if in.InviteChannel == "" {
		in.InviteChannel = ChannelManual
	}
	if !in.InviteChannel.Valid() {
		return nil, apperr.Invalid("invalid inviteChannel")
	}

	g := Guest{
		EventID:       sc.Event.ID,
		FirstName:     first,
		LastName:      last,
		Phone:         trimmedPhone(in.Phone),
		RSVPStatus:    RSVPPending,
		InviteChannel: in.InviteChannel,
		InviteToken:   inviteTokenFor(sc.Event.InviteModel),
	}
	if err := s.DB.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Service) Update(ctx context.Context, sc guard.Scope, id uint64, p Patch) (*Guest, error) {
	g, err := guard.Child[Guest](ctx, s.DB, sc, id, "guest")
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if p.FirstName != nil {
		v := strings.TrimSpace(*p.FirstName)
		if v == "" {
			return nil, apperr.Invalid("firstName cannot be blank")
		}
		changes["first_name"] = v
	}
	if p.LastName != nil {
		v := strings.TrimSpace(*p.LastName)
		if v == "" {
			return nil, apperr.Invalid("lastName cannot be blank")
		}
		changes["last_name"] = v
	}
	if p.Phone != nil {
		changes["phone"] = trimmedPhone(p.Phone)
	}
	if p.RSVPStatus != nil {
		if !p.RSVPStatus.Valid() {
			return nil, apperr.Invalid("invalid rsvp status")
		}
		if *p.RSVPStatus != g.RSVPStatus {
			changes["rsvp_status"] = *p.RSVPStatus
			if *p.RSVPStatus == RSVPPending {
				changes["rsvp_at"] = nil
			} else {
				changes["rsvp_at"] = s.now()
			}
		}
	}
	if p.CheckedIn != nil && *p.CheckedIn != g.CheckedIn {
		changes["checked_in"] = *p.CheckedIn
		if *p.CheckedIn {
			changes["checked_in_at"] = s.now()
		} else {
			changes["checked_in_at"] = nil
		}
	}
	if p.TableID != nil {
		if *p.TableID == 0 {
			changes["table_id"] = nil
		} else {
			t, err := guard.Child[seating.Table](ctx, s.DB, sc, *p.TableID, "table")
			if err != nil {
				return nil, err
			}
			changes["table_id"] = t.ID
		}
	}
	if len(changes) == 0 {
		return g, nil
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&Guest{}).Where("id = ? AND event_id = ?", g.ID, sc.Event.ID).Updates(changes).Error; err != nil {
		return nil, err
	}
	var out Guest
	if err := db.Where("id = ?", g.ID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, sc guard.Scope, id uint64) error {
	g, err := guard.Child[Guest](ctx, s.DB, sc, id, "guest")
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Where("id = ? AND event_id = ?", g.ID, sc.Event.ID).Delete(&Guest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("guest")
	}
	return nil
}

func trimmedPhone(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func inviteTokenFor(m event.InviteModel) *string {
	if m != event.InviteClosed {
		return nil
	}
	tok := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &tok
}
