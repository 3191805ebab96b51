package event

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// InviteModel decides whether guests need a personal token to RSVP.
type InviteModel string

const (
	InviteOpen   InviteModel = "open"
	InviteClosed InviteModel = "closed"
)

func (m InviteModel) Valid() bool {
	return m == InviteOpen || m == InviteClosed
}

type Event struct {
	ID          uint64      `gorm:"primaryKey" json:"id"`
	PlannerID   uint64      `gorm:"index;not null" json:"plannerId"`
	Name        string      `gorm:"not null" json:"name"`
	Venue       string      `gorm:"not null;default:''" json:"venue"`
	Date        time.Time   `gorm:"index;not null" json:"date"`
	Status      Status      `gorm:"type:varchar(16);index;not null;default:'draft'" json:"status"`
	InviteModel InviteModel `gorm:"type:varchar(16);not null;default:'open'" json:"inviteModel"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
