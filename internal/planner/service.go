package planner

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventdesk/internal/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB *gorm.DB
}

type SyncInput struct {
	UID   string
	Name  string
	Email string
	Image string
}

// Sync upserts the planner identified by email and returns the stored row.
func (s *Service) Sync(ctx context.Context, in SyncInput) (*Planner, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.UID = strings.TrimSpace(in.UID)
	if in.Email == "" || in.UID == "" {
		return nil, apperr.Invalid("uid and email are required")
	}

	p := Planner{
		UID:       in.UID,
		Email:     in.Email,
		Name:      strings.TrimSpace(in.Name),
		Image:     strings.TrimSpace(in.Image),
		UpdatedAt: time.Now().UTC(),
	}

	db := s.DB.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"uid", "name", "image", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return nil, err
	}

	return s.ByEmail(ctx, in.Email)
}

func (s *Service) ByEmail(ctx context.Context, email string) (*Planner, error) {
	var p Planner
	err := s.DB.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(strings.ToLower(email))).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
