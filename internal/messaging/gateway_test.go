package messaging

import (
	"context"
	"strings"
	"testing"

	"eventdesk/internal/apperr"
	"eventdesk/internal/planner"
	"eventdesk/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	sends   []string
	lastTok string
	sendErr error
	infoErr error
}

func (f *fakeProvider) SendText(_ context.Context, cred Credential, to, _ string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.lastTok = cred.AccessToken
	f.sends = append(f.sends, to)
	return "wamid." + to, nil
}

func (f *fakeProvider) PhoneInfo(_ context.Context, cred Credential) (PhoneInfo, error) {
	if f.infoErr != nil {
		return PhoneInfo{}, f.infoErr
	}
	return PhoneInfo{VerifiedName: "Ada Events", DisplayPhoneNumber: "+2348000000000"}, nil
}

func newGateway(t *testing.T) (*Gateway, *fakeProvider, *planner.Planner) {
	t.Helper()
	db := testutil.NewDB(t)
	c, err := NewCipher("secret")
	require.NoError(t, err)
	fp := &fakeProvider{}
	p := testutil.NewPlanner(t, db, "planner@example.com")
	return &Gateway{DB: db, Cipher: c, Provider: fp, Log: zerolog.Nop()}, fp, p
}

func reload(t *testing.T, g *Gateway, id uint64) planner.Planner {
	t.Helper()
	var p planner.Planner
	require.NoError(t, g.DB.First(&p, id).Error)
	return p
}

func TestConnectStoresSealedToken(t *testing.T) {
	g, _, p := newGateway(t)
	ctx := context.Background()

	st, err := g.Connect(ctx, p, ConnectInput{AccessToken: " EAAG-secret ", PhoneNumberID: "1098"})
	require.NoError(t, err)
	assert.True(t, st.Connected)
	require.NotNil(t, st.DisplayName)
	assert.Equal(t, "Ada Events", *st.DisplayName)

	stored := reload(t, g, p.ID)
	require.NotNil(t, stored.WhatsAppAccessToken)
	assert.NotContains(t, *stored.WhatsAppAccessToken, "EAAG-secret")
	assert.Equal(t, 2, strings.Count(*stored.WhatsAppAccessToken, ":"))

	plain, err := g.Cipher.Decrypt(*stored.WhatsAppAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "EAAG-secret", plain)
}

func TestConnectRejectedCredentialIsNotStored(t *testing.T) {
	g, fp, p := newGateway(t)
	fp.infoErr = apperr.Upstream("Invalid OAuth access token.", nil)

	_, err := g.Connect(context.Background(), p, ConnectInput{AccessToken: "bad", PhoneNumberID: "1"})
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.Nil(t, reload(t, g, p.ID).WhatsAppAccessToken)

	_, err = g.Connect(context.Background(), p, ConnectInput{AccessToken: "", PhoneNumberID: "1"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestSendCountsOnlyRealSends(t *testing.T) {
	g, fp, p := newGateway(t)
	ctx := context.Background()
	_, err := g.Connect(ctx, p, ConnectInput{AccessToken: "EAAG-secret", PhoneNumberID: "1098"})
	require.NoError(t, err)

	id, err := g.Send(ctx, p, "0801 234 5678", "Hello", false)
	require.NoError(t, err)
	assert.Equal(t, "wamid.+2348012345678", id)
	assert.Equal(t, "EAAG-secret", fp.lastTok)

	_, err = g.Send(ctx, p, "08012345678", "Test", true)
	require.NoError(t, err)

	fp.sendErr = apperr.Upstream("rate limited", nil)
	_, err = g.Send(ctx, p, "08012345678", "Hello", false)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))

	assert.EqualValues(t, 1, reload(t, g, p.ID).WhatsAppMessagesSent)
	st, err := g.Status(ctx, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.MessagesSent)
}

func TestSendReadsLegacyPlaintextToken(t *testing.T) {
	g, fp, p := newGateway(t)
	require.NoError(t, g.DB.Model(&planner.Planner{}).Where("id = ?", p.ID).Updates(map[string]any{
		"whatsapp_access_token":    "legacy-token",
		"whatsapp_phone_number_id": "1098",
	}).Error)

	_, err := g.Send(context.Background(), p, "+2348012345678", "Hi", true)
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", fp.lastTok)
}

func TestSendRequiresConnection(t *testing.T) {
	g, fp, p := newGateway(t)
	ctx := context.Background()

	_, err := g.Send(ctx, p, "08012345678", "Hello", false)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = g.Connect(ctx, p, ConnectInput{AccessToken: "tok", PhoneNumberID: "1098"})
	require.NoError(t, err)
	require.NoError(t, g.Disconnect(ctx, p))

	_, err = g.Send(ctx, p, "08012345678", "Hello", false)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Empty(t, fp.sends)

	st, err := g.Status(ctx, p)
	require.NoError(t, err)
	assert.False(t, st.Connected)
}
