// Package messaging connects planners to the WhatsApp Cloud API. Access
// tokens are sealed with Cipher before they reach the store and are opened
// only for the duration of a send.
package messaging

import (
	"context"
	"strings"

	"eventdesk/internal/apperr"
	"eventdesk/internal/planner"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "eventdesk_whatsapp_messages_total",
	Help: "Outbound WhatsApp messages by result.",
}, []string{"result"})

type Status struct {
	Connected         bool    `json:"connected"`
	PhoneNumberID     *string `json:"phoneNumberId"`
	BusinessAccountID *string `json:"businessAccountId"`
	DisplayName       *string `json:"displayName"`
	MessagesSent      int64   `json:"messagesSent"`
}

type ConnectInput struct {
	AccessToken       string
	PhoneNumberID     string
	BusinessAccountID string
}

type Gateway struct {
	DB       *gorm.DB
	Cipher   *Cipher
	Phones   PhoneNormalizer
	Provider Provider
	Log      zerolog.Logger
}

func StatusOf(p *planner.Planner) Status {
	return Status{
		Connected:         p.WhatsAppConnected(),
		PhoneNumberID:     p.WhatsAppPhoneNumberID,
		BusinessAccountID: p.WhatsAppBusinessAccountID,
		DisplayName:       p.WhatsAppDisplayName,
		MessagesSent:      p.WhatsAppMessagesSent,
	}
}

func (g *Gateway) Status(ctx context.Context, p *planner.Planner) (Status, error) {
	var fresh planner.Planner
	if err := g.DB.WithContext(ctx).Where("id = ?", p.ID).First(&fresh).Error; err != nil {
		return Status{}, err
	}
	return StatusOf(&fresh), nil
}

// Connect checks the credential against the provider, then stores it
// sealed. A rejected credential is never persisted.
func (g *Gateway) Connect(ctx context.Context, p *planner.Planner, in ConnectInput) (Status, error) {
	cred := Credential{
		AccessToken:   strings.TrimSpace(in.AccessToken),
		PhoneNumberID: strings.TrimSpace(in.PhoneNumberID),
	}
	if cred.AccessToken == "" || cred.PhoneNumberID == "" {
		return Status{}, apperr.Invalid("accessToken and phoneNumberId are required")
	}

	info, err := g.Provider.PhoneInfo(ctx, cred)
	if err != nil {
		return Status{}, err
	}

	sealed, err := g.Cipher.Encrypt(cred.AccessToken)
	if err != nil {
		return Status{}, apperr.Internal(err)
	}

	display := strings.TrimSpace(info.VerifiedName)
	if display == "" {
		display = info.DisplayPhoneNumber
	}
	changes := map[string]any{
		"whatsapp_access_token":        sealed,
		"whatsapp_phone_number_id":     cred.PhoneNumberID,
		"whatsapp_business_account_id": optional(in.BusinessAccountID),
		"whatsapp_display_name":        optional(display),
	}
	if err := g.DB.WithContext(ctx).Model(&planner.Planner{}).Where("id = ?", p.ID).Updates(changes).Error; err != nil {
		return Status{}, err
	}

	g.Log.Info().Uint64("planner_id", p.ID).Str("phone_number_id", cred.PhoneNumberID).Msg("whatsapp connected")
	return g.Status(ctx, p)
}

func (g *Gateway) Disconnect(ctx context.Context, p *planner.Planner) error {
	changes := map[string]any{
		"whatsapp_access_token":        nil,
		"whatsapp_phone_number_id":     nil,
		"whatsapp_business_account_id": nil,
		"whatsapp_display_name":        nil,
	}
	return g.DB.WithContext(ctx).Model(&planner.Planner{}).Where("id = ?", p.ID).Updates(changes).Error
}

// Send delivers body to the normalized recipient and returns the provider
// message id. Test sends never move the planner's counter.
func (g *Gateway) Send(ctx context.Context, p *planner.Planner, to, body string, test bool) (string, error) {
	to = strings.TrimSpace(to)
	body = strings.TrimSpace(body)
	if to == "" || body == "" {
		return "", apperr.Invalid("to and message are required")
	}
	cred, err := g.credential(ctx, p)
	if err != nil {
		return "", err
	}

	recipient := g.Phones.Normalize(to)
	id, err := g.Provider.SendText(ctx, cred, recipient, body)
	if err != nil {
		messagesTotal.WithLabelValues("failed").Inc()
		g.Log.Warn().Err(err).Uint64("planner_id", p.ID).Msg("whatsapp send failed")
		return "", err
	}

	if test {
		messagesTotal.WithLabelValues("test").Inc()
		return id, nil
	}
	messagesTotal.WithLabelValues("sent").Inc()

	err = g.DB.WithContext(ctx).Model(&planner.Planner{}).
		Where("id = ?", p.ID).
		UpdateColumn("whatsapp_messages_sent", gorm.Expr("whatsapp_messages_sent + ?", 1)).Error
	if err != nil {
		// Already delivered; only log.
		g.Log.Error().Err(err).Uint64("planner_id", p.ID).Msg("increment messages sent")
	}
	return id, nil
}

// credential reloads the planner so a concurrent disconnect is honoured.
func (g *Gateway) credential(ctx context.Context, p *planner.Planner) (Credential, error) {
	var fresh planner.Planner
	if err := g.DB.WithContext(ctx).Where("id = ?", p.ID).First(&fresh).Error; err != nil {
		return Credential{}, err
	}
	if !fresh.WhatsAppConnected() {
		return Credential{}, apperr.Invalid("whatsapp is not connected")
	}
	token, err := g.Cipher.Decrypt(*fresh.WhatsAppAccessToken)
	if err != nil {
		return Credential{}, apperr.Internal(err)
	}
	return Credential{AccessToken: token, PhoneNumberID: *fresh.WhatsAppPhoneNumberID}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
