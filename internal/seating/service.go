package seating

import (
	"context"
	"strings"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guard"

	"gorm.io/gorm"
)

const (
	MaxBulkTables        = 100
	DefaultSeatsPerTable = 10
	MaxSeatsPerTable     = 100
)

type Service struct {
	DB *gorm.DB
}

type BulkResult struct {
	Created   int `json:"created"`
	StartFrom int `json:"startFrom"`
}

type Patch struct {
	Capacity *int
	Label    *string
}

func (s *Service) List(ctx context.Context, sc guard.Scope) ([]Table, error) {
	db := s.DB.WithContext(ctx)

	out := []Table{}
	if err := db.Where("event_id = ?", sc.Event.ID).Order("table_number asc").Find(&out).Error; err != nil {
		return nil, err
	}

	type seatCount struct {
		TableID uint64
		Seated  int64
	}
	var counts []seatCount
	if err := db.Raw(`
		select table_id, count(*) as seated
		from guests
		where event_id = ? and table_id is not null
		group by table_id
	`, sc.Event.ID).Scan(&counts).Error; err != nil {
		return nil, err
	}

	byTable := make(map[uint64]int64, len(counts))
	for _, c := range counts {
		byTable[c.TableID] = c.Seated
	}
	for i := range out {
		out[i].Seated = byTable[out[i].ID]
	}
	return out, nil
}

// BulkCreate appends count tables numbered after the current maximum.
func (s *Service) BulkCreate(ctx context.Context, sc guard.Scope, count int, seatsPerTable *int) (BulkResult, error) {
	if count < 1 || count > MaxBulkTables {
		return BulkResult{}, apperr.Invalid("count must be between 1 and 100")
	}
	seats := DefaultSeatsPerTable
	if seatsPerTable != nil {
		seats = *seatsPerTable
	}
	if seats < 1 || seats > MaxSeatsPerTable {
		return BulkResult{}, apperr.Invalid("seatsPerTable must be between 1 and 100")
	}

	var res BulkResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := guard.Lock(tx, sc); err != nil {
			return err
		}

		var maxNumber int
		if err := tx.Model(&Table{}).
			Where("event_id = ?", sc.Event.ID).
			Select("coalesce(max(table_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}

		tables := make([]Table, 0, count)
		for i := 1; i <= count; i++ {
			tables = append(tables, Table{
				EventID:     sc.Event.ID,
				TableNumber: maxNumber + i,
				Capacity:    seats,
			})
		}
		if err := tx.CreateInBatches(&tables, MaxBulkTables).Error; err != nil {
			return err
		}

		res = BulkResult{Created: count, StartFrom: maxNumber + 1}
		return nil
	})
	return res, err
}

func (s *Service) Update(ctx context.Context, sc guard.Scope, id uint64, p Patch) (*Table, error) {
	t, err := guard.Child[Table](ctx, s.DB, sc, id, "table")
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if p.Capacity != nil {
		if *p.Capacity < 1 || *p.Capacity > MaxSeatsPerTable {
			return nil, apperr.Invalid("capacity must be between 1 and 100")
		}
		changes["capacity"] = *p.Capacity
	}
	if p.Label != nil {
		changes["label"] = strings.TrimSpace(*p.Label)
	}
	if len(changes) == 0 {
		return t, nil
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&Table{}).Where("id = ? AND event_id = ?", t.ID, sc.Event.ID).Updates(changes).Error; err != nil {
		return nil, err
	}
	var out Table
	if err := db.Where("id = ?", t.ID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the table and unseats its guests.
func (s *Service) Delete(ctx context.Context, sc guard.Scope, id uint64) error {
	t, err := guard.Child[Table](ctx, s.DB, sc, id, "table")
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`update guests set table_id = null where event_id = ? and table_id = ?`, sc.Event.ID, t.ID).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND event_id = ?", t.ID, sc.Event.ID).Delete(&Table{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("table")
		}
		return nil
	})
}
