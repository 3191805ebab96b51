package planner

import "time"

// Planner owns events. WhatsApp credentials are optional; the access token
// is always stored encrypted.
type Planner struct {
	ID    uint64 `gorm:"primaryKey" json:"id"`
	UID   string `gorm:"index;not null" json:"uid"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Name  string `gorm:"not null;default:''" json:"name"`
	Image string `gorm:"not null;default:''" json:"image"`

	WhatsAppAccessToken       *string `gorm:"column:whatsapp_access_token;type:text" json:"-"`
	WhatsAppPhoneNumberID     *string `gorm:"column:whatsapp_phone_number_id" json:"-"`
	WhatsAppBusinessAccountID *string `gorm:"column:whatsapp_business_account_id" json:"-"`
	WhatsAppDisplayName       *string `gorm:"column:whatsapp_display_name" json:"-"`
	WhatsAppMessagesSent      int64   `gorm:"column:whatsapp_messages_sent;not null;default:0" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Planner) WhatsAppConnected() bool {
	return p.WhatsAppAccessToken != nil && *p.WhatsAppAccessToken != "" &&
		p.WhatsAppPhoneNumberID != nil && *p.WhatsAppPhoneNumberID != ""
}
