package guest

import "time"

type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
)

func (s RSVPStatus) Valid() bool {
	return s == RSVPPending || s == RSVPConfirmed || s == RSVPDeclined
}

type InviteChannel string

const (
	ChannelManual   InviteChannel = "manual"
	ChannelLink     InviteChannel = "link"
	ChannelImport   InviteChannel = "import"
	ChannelWhatsApp InviteChannel = "whatsapp"
)

func (c InviteChannel) Valid() bool {
	switch c {
	case ChannelManual, ChannelLink, ChannelImport, ChannelWhatsApp:
		return true
	}
	return false
}

// Guest belongs to exactly one event. InviteToken is set only when the
// event uses the closed invite model.
type Guest struct {
	ID            uint64        `gorm:"primaryKey" json:"id"`
	EventID       uint64        `gorm:"index;not null" json:"eventId"`
	FirstName     string        `gorm:"not null" json:"firstName"`
	LastName      string        `gorm:"not null" json:"lastName"`
	Phone         *string       `gorm:"index" json:"phone"`
	RSVPStatus    RSVPStatus    `gorm:"column:rsvp_status;type:varchar(16);index;not null;default:'pending'" json:"rsvpStatus"`
	RSVPAt        *time.Time    `gorm:"column:rsvp_at;index" json:"rsvpAt"`
	CheckedIn     bool          `gorm:"not null;default:false" json:"checkedIn"`
	CheckedInAt   *time.Time    `json:"checkedInAt"`
	InviteToken   *string       `gorm:"uniqueIndex" json:"inviteToken"`
	InviteChannel InviteChannel `gorm:"type:varchar(16);not null;default:'manual'" json:"inviteChannel"`
	InvitedAt     *time.Time    `json:"invitedAt"`
	TableID       *uint64       `gorm:"index" json:"tableId"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (g Guest) FullName() string {
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}
