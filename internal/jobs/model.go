package jobs

import "time"

type Status string

const (
	StatusPending Status = "PENDING"
	StatusRunning Status = "RUNNING"
	StatusDone    Status = "DONE"
	StatusFailed  Status = "FAILED"
)

const TypeInviteBroadcast = "INVITE_BROADCAST"

type Job struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	PlannerID uint64 `gorm:"index;not null" json:"-"`
	EventID   uint64 `gorm:"index;not null" json:"eventId"`

	Type    string `gorm:"type:varchar(32);not null" json:"type"`
	Payload string `gorm:"type:text;not null" json:"-"`

	RunAt  time.Time `gorm:"index;not null" json:"runAt"`
	Status Status    `gorm:"type:varchar(16);index;not null" json:"status"`

	Attempts    int `gorm:"not null;default:0" json:"attempts"`
	MaxAttempts int `gorm:"not null;default:1" json:"-"`

	LockedBy *string    `gorm:"type:text" json:"-"`
	LockedAt *time.Time `json:"-"`

	Sent      int     `gorm:"not null;default:0" json:"sent"`
	Failed    int     `gorm:"not null;default:0" json:"failed"`
	LastError *string `gorm:"type:text" json:"lastError"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type invitePayload struct {
	Message string `json:"message,omitempty"`
}
