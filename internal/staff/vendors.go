package staff

import (
	"context"
	"net/mail"
	"strings"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guard"

	"gorm.io/gorm"
)

type VendorService struct {
	DB *gorm.DB
}

type VendorInput struct {
	Name                string
	ContactName         *string
	Email               *string
	Phone               *string
	Role                VendorRole
	Notes               *string
	CanOverrideCapacity bool
}

type VendorPatch struct {
	Name                *string
	ContactName         *string
	Email               *string
	Phone               *string
	Role                *VendorRole
	Notes               *string
	CanOverrideCapacity *bool
}

func (s *VendorService) List(ctx context.Context, sc guard.Scope) ([]Vendor, error) {
	out := []Vendor{}
	err := s.DB.WithContext(ctx).
		Where("event_id = ?", sc.Event.ID).
		Order("created_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}

func validEmail(e *string) bool {
	if e == nil {
		return true
	}
	_, err := mail.ParseAddress(*e)
	return err == nil
}

func (s *VendorService) Create(ctx context.Context, sc guard.Scope, in VendorInput) (*Vendor, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name is required")
	}
	if in.Role == "" {
		in.Role = VendorOther
	}
	if !in.Role.Valid() {
		return nil, apperr.Invalid("invalid role")
	}
	email := optional(in.Email)
	if !validEmail(email) {
		return nil, apperr.Invalid("invalid email")
	}

	v := Vendor{
		EventID:             sc.Event.ID,
		Name:                name,
		ContactName:         optional(in.ContactName),
		Email:               email,
		Phone:               optional(in.Phone),
		Role:                in.Role,
		Notes:               optional(in.Notes),
		CanOverrideCapacity: in.CanOverrideCapacity,
	}
	if err := s.DB.WithContext(ctx).Create(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VendorService) Update(ctx context.Context, sc guard.Scope, id uint64, p VendorPatch) (*Vendor, error) {
	v, err := guard.Child[Vendor](ctx, s.DB, sc, id, "vendor")
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
	if p.ContactName != nil {
		changes["contact_name"] = optional(p.ContactName)
	}
	if p.Email != nil {
		email := optional(p.Email)
		if !validEmail(email) {
			return nil, apperr.Invalid("invalid email")
		}
		changes["email"] = email
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
	if p.Notes != nil {
		changes["notes"] = optional(p.Notes)
	}
	if p.CanOverrideCapacity != nil {
		changes["can_override_capacity"] = *p.CanOverrideCapacity
	}
	if len(changes) == 0 {
		return v, nil
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&Vendor{}).Where("id = ? AND event_id = ?", v.ID, sc.Event.ID).Updates(changes).Error; err != nil {
		return nil, err
	}
	var out Vendor
	if err := db.Where("id = ?", v.ID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *VendorService) Delete(ctx context.Context, sc guard.Scope, id uint64) error {
	v, err := guard.Child[Vendor](ctx, s.DB, sc, id, "vendor")
	if err != nil {
		return err
	}
	return deleteChild[Vendor](ctx, s.DB, sc, v.ID, "vendor")
}
