package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventdesk/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendText(t *testing.T) {
	var got textMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1098/messages", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.ABC"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	id, err := c.SendText(context.Background(), Credential{AccessToken: "tok", PhoneNumberID: "1098"}, "+2348012345678", "hello")
	require.NoError(t, err)
	assert.Equal(t, "wamid.ABC", id)
	assert.Equal(t, "2348012345678", got.To)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "hello", got.Text.Body)
}

func TestClientSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SendText(context.Background(), Credential{AccessToken: "bad", PhoneNumberID: "1"}, "+1", "x")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.Equal(t, "Invalid OAuth access token.", apperr.PublicMessage(err))
}

func TestClientNonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).PhoneInfo(context.Background(), Credential{AccessToken: "t", PhoneNumberID: "1"})
	assert.Equal(t, "whatsapp api returned 502", apperr.PublicMessage(err))
}

func TestClientPhoneInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/1098", r.URL.Path)
		assert.Equal(t, "display_phone_number,verified_name", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"display_phone_number":"+234 801 000 0000","verified_name":"Ada Events","id":"1098"}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL).PhoneInfo(context.Background(), Credential{AccessToken: "t", PhoneNumberID: "1098"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Events", info.VerifiedName)
}
