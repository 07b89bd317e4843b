package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

// Message is one push notification addressed to a device token.
type Message struct {
	To    string            `json:"to"`
	Sound string            `json:"sound,omitempty"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type ticket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type pushResponse struct {
	Data []ticket `json:"data"`
}

// Client talks to the Expo push API. Delivery is best effort; callers are
// expected to log and absorb errors.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		URL:        expoPushURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// IsExpoPushToken checks the token's syntax without contacting Expo.
func IsExpoPushToken(token string) bool {
	if strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[") {
		return strings.HasSuffix(token, "]") && len(token) > len("ExpoPushToken[]")
	}
	return false
}

func (c *Client) ValidToken(token string) bool {
	return IsExpoPushToken(token)
}

// Send delivers a single notification. Delivery tickets beyond
// success/failure are ignored; no receipts are tracked.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := Message{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	}

	jsonData, err := json.Marshal([]Message{msg})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}

	var parsed pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}
	for _, t := range parsed.Data {
		if t.Status == "error" {
			return fmt.Errorf("push provider rejected message: %s", t.Message)
		}
	}
	return nil
}
