package staff

import (
	"context"
	"strings"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guard"

	"gorm.io/gorm"
)

type UsherService struct {
	DB *gorm.DB
}

type UsherInput struct {
	Name  string
	Phone *string
	Role  UsherRole
}

type UsherPatch struct {
	Name  *string
	Phone *string
	Role  *UsherRole
}

func (s *UsherService) List(ctx context.Context, sc guard.Scope) ([]Usher, error) {
	out := []Usher{}
	err := s.DB.WithContext(ctx).
		Where("event_id = ?", sc.Event.ID).
		Order("role asc").Order("created_at asc").Order("id asc").
		Find(&out).Error
	return out, err
}

func (s *UsherService) Create(ctx context.Context, sc guard.Scope, in UsherInput) (*Usher, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name is required")
	}
	if in.Role == "" {
		in.Role = UsherRoleUsher
	}
	if !in.Role.Valid() {
		return nil, apperr.Invalid("invalid role")
	}

	u := Usher{EventID: sc.Event.ID, Name: name, Phone: optional(in.Phone), Role: in.Role}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UsherService) Update(ctx context.Context, sc guard.Scope, id uint64, p UsherPatch) (*Usher, error) {
	u, err := guard.Child[Usher](ctx, s.DB, sc, id, "usher")
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperr.Invalid("name cannot be blank")
		}
		changes["name"] = name
	}
	if p.Phone != nil {
		changes["phone"] = optional(p.Phone)
	}
	if p.Role != nil {
		if !p.Role.Valid() {
			return nil, apperr.Invalid("invalid role")
		}
		changes["role"] = *p.Role
	}
	if len(changes) == 0 {
		return u, nil
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&Usher{}).Where("id = ? AND event_id = ?", u.ID, sc.Event.ID).Updates(changes).Error; err != nil {
		return nil, err
	}
	var out Usher
	if err := db.Where("id = ?", u.ID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UsherService) Delete(ctx context.Context, sc guard.Scope, id uint64) error {
	u, err := guard.Child[Usher](ctx, s.DB, sc, id, "usher")
	if err != nil {
		return err
	}
	return deleteChild[Usher](ctx, s.DB, sc, u.ID, "usher")
}

// optional trims s and maps blank to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deleteChild[T any](ctx context.Context, db *gorm.DB, sc guard.Scope, id uint64, kind string) error {
	var zero T
	res := db.WithContext(ctx).Where("id = ? AND event_id = ?", id, sc.Event.ID).Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(kind)
	}
	return nil
}
