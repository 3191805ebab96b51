package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventdesk/internal/apperr"
)

// Credential is a decrypted WhatsApp Business credential. It lives only for
// the duration of one call.
type Credential struct {
	AccessToken   string
	PhoneNumberID string
}

type PhoneInfo struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	VerifiedName       string `json:"verified_name"`
}

// Provider is the outbound side of the gateway.
type Provider interface {
	SendText(ctx context.Context, cred Credential, to, body string) (string, error)
	PhoneInfo(ctx context.Context, cred Credential) (PhoneInfo, error)
}

// Client talks to the WhatsApp Cloud API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText posts a text message. to must already be E.164.
func (c *Client) SendText(ctx context.Context, cred Credential, to, body string) (string, error) {
	msg := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               strings.TrimPrefix(to, "+"),
		Type:             "text",
	}
	msg.Text.Body = body

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	endpoint := c.BaseURL + "/" + url.PathEscape(cred.PhoneNumberID) + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out sendResponse
	if err := c.do(req, cred, &out); err != nil {
		return "", err
	}
	if len(out.Messages) == 0 || out.Messages[0].ID == "" {
		return "", apperr.Upstream("whatsapp returned no message id", nil)
	}
	return out.Messages[0].ID, nil
}

// PhoneInfo fetches the business phone number, which also proves the token
// can act on it.
func (c *Client) PhoneInfo(ctx context.Context, cred Credential) (PhoneInfo, error) {
	endpoint := c.BaseURL + "/" + url.PathEscape(cred.PhoneNumberID) + "?fields=display_phone_number,verified_name"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PhoneInfo{}, err
	}
	var out PhoneInfo
	if err := c.do(req, cred, &out); err != nil {
		return PhoneInfo{}, err
	}
	return out, nil
}

func (c *Client) do(req *http.Request, cred Credential, out any) error {
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return apperr.Upstream("whatsapp request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperr.Upstream("whatsapp response unreadable", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		msg := fmt.Sprintf("whatsapp api returned %d", resp.StatusCode)
		if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
			msg = e.Error.Message
		}
		return apperr.Upstream(msg, nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Upstream("whatsapp response malformed", err)
	}
	return nil
}
