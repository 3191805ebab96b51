package seating

import "time"

// Table numbers are unique per event.
type Table struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	EventID     uint64    `gorm:"not null;uniqueIndex:uq_event_tables_number,priority:1" json:"eventId"`
	TableNumber int       `gorm:"not null;uniqueIndex:uq_event_tables_number,priority:2" json:"tableNumber"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Label       string    `gorm:"not null;default:''" json:"label"`
	Seated      int64     `gorm:"-" json:"seated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Table) TableName() string { return "event_tables" }
