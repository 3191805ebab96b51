package menu

import "time"

const DefaultCategory = "main"

// Item is one dish or drink on an event menu. SortOrder counts up within
// its category.
type Item struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	EventID     uint64    `gorm:"not null;index:idx_menu_items_event_category,priority:1" json:"eventId"`
	Category    string    `gorm:"not null;index:idx_menu_items_event_category,priority:2" json:"category"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Available   bool      `gorm:"not null" json:"available"`
	SortOrder   int       `gorm:"not null" json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return "menu_items" }
