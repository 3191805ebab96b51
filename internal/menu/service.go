package menu

import (
	"context"
	"strings"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guard"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Category    string
	Name        string
	Description string
}

type Patch struct {
	Category    *string
	Name        *string
	Description *string
	Available   *bool
	SortOrder   *int
}

func normCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCategory
	}
	return c
}

func (s *Service) List(ctx context.Context, sc guard.Scope) ([]Item, error) {
	out := []Item{}
	err := s.DB.WithContext(ctx).
		Where("event_id = ?", sc.Event.ID).
		Order("category asc").Order("sort_order asc").Order("created_at asc").
		Find(&out).Error
	return out, err
}

func nextSortOrder(tx *gorm.DB, eventID uint64, category string) (int, error) {
	var max int
	err := tx.Model(&Item{}).
		Where("event_id = ? AND category = ?", eventID, category).
		Select("coalesce(max(sort_order), 0)").
		Scan(&max).Error
	return max + 1, err
}

func (s *Service) Create(ctx context.Context, sc guard.Scope, in CreateInput) (*Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name is required")
	}

	item := Item{
		EventID:     sc.Event.ID,
		Category:    normCategory(in.Category),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Available:   true,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := guard.Lock(tx, sc); err != nil {
			return err
		}
		next, err := nextSortOrder(tx, sc.Event.ID, item.Category)
		if err != nil {
			return err
		}
		item.SortOrder = next
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update moves an item to the end of its new category when the category
// changes and no explicit sortOrder is given.
func (s *Service) Update(ctx context.Context, sc guard.Scope, id uint64, p Patch) (*Item, error) {
	item, err := guard.Child[Item](ctx, s.DB, sc, id, "menu item")
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
	if p.Description != nil {
		changes["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Available != nil {
		changes["available"] = *p.Available
	}
	if p.SortOrder != nil {
		if *p.SortOrder < 1 {
			return nil, apperr.Invalid("sortOrder must be positive")
		}
		changes["sort_order"] = *p.SortOrder
	}

	var out Item
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.Category != nil {
			category := normCategory(*p.Category)
			if category != item.Category {
				changes["category"] = category
				if p.SortOrder == nil {
					if _, err := guard.Lock(tx, sc); err != nil {
						return err
					}
					next, err := nextSortOrder(tx, sc.Event.ID, category)
					if err != nil {
						return err
					}
					changes["sort_order"] = next
				}
			}
		}
		if len(changes) > 0 {
			if err := tx.Model(&Item{}).Where("id = ? AND event_id = ?", item.ID, sc.Event.ID).Updates(changes).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", item.ID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, sc guard.Scope, id uint64) error {
	item, err := guard.Child[Item](ctx, s.DB, sc, id, "menu item")
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Where("id = ? AND event_id = ?", item.ID, sc.Event.ID).Delete(&Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("menu item")
	}
	return nil
}
