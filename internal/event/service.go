package event

import (
	"context"
	"strings"
	"time"

	"eventdesk/internal/apperr"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Name        string
	Venue       string
	Date        time.Time
	Status      Status
	InviteModel InviteModel
}

// Patch holds the fields an update may change. Nil fields stay untouched.
type Patch struct {
	Name        *string
	Venue       *string
	Date        *time.Time
	Status      *Status
	InviteModel *InviteModel
}

// childTables are removed together with their event.
var childTables = []string{"guests", "menu_items", "event_tables", "ushers", "vendors"}

func (s *Service) List(ctx context.Context, plannerID uint64) ([]Event, error) {
	out := []Event{}
	err := s.DB.WithContext(ctx).
		Where("planner_id = ?", plannerID).
		Order("date asc").Order("id asc").
		Find(&out).Error
	return out, err
}

func (s *Service) Create(ctx context.Context, plannerID uint64, in CreateInput) (*Event, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.Invalid("name is required")
	}
	if in.Date.IsZero() {
		return nil, apperr.Invalid("date is required")
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	if !in.Status.Valid() {
		return nil, apperr.Invalid("invalid status")
	}
	if in.InviteModel == "" {
		in.InviteModel = InviteOpen
	}
	if !in.InviteModel.Valid() {
		return nil, apperr.Invalid("invalid inviteModel")
	}

	e := Event{
		PlannerID:   plannerID,
		Name:        in.Name,
		Venue:       strings.TrimSpace(in.Venue),
		Date:        in.Date.UTC(),
		Status:      in.Status,
		InviteModel: in.InviteModel,
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// Update applies p to an event that the caller already resolved through the guard.
func (s *Service) Update(ctx context.Context, e *Event, p Patch) (*Event, error) {
	changes := map[string]any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperr.Invalid("name cannot be blank")
		}
		changes["name"] = name
	}
	if p.Venue != nil {
		changes["venue"] = strings.TrimSpace(*p.Venue)
	}
	if p.Date != nil {
		if p.Date.IsZero() {
			return nil, apperr.Invalid("date cannot be blank")
		}
		changes["date"] = p.Date.UTC()
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, apperr.Invalid("invalid status")
		}
		changes["status"] = *p.Status
	}
	if p.InviteModel != nil {
		if !p.InviteModel.Valid() {
			return nil, apperr.Invalid("invalid inviteModel")
		}
		changes["invite_model"] = *p.InviteModel
	}
	if len(changes) == 0 {
		return e, nil
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&Event{}).Where("id = ? AND planner_id = ?", e.ID, e.PlannerID).Updates(changes).Error; err != nil {
		return nil, err
	}
	var out Event
	if err := db.Where("id = ?", e.ID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the event and every child row in one transaction.
func (s *Service) Delete(ctx context.Context, e *Event) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range childTables {
			if err := tx.Exec("delete from "+t+" where event_id = ?", e.ID).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ? AND planner_id = ?", e.ID, e.PlannerID).Delete(&Event{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("event")
		}
		return nil
	})
}
