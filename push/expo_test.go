package push

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsExpoPushToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"ExponentPushToken[xxxxxx]", true},
		{"ExpoPushToken[yyyy]", true},
		{"ExponentPushToken[]", false},
		{"ExponentPushToken[abc", false},
		{"abc123", false},
		{"", false},
		{"FCMToken[abc]", false},
	}
	for _, tt := range tests {
		if got := IsExpoPushToken(tt.token); got != tt.want {
			t.Errorf("IsExpoPushToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestSend(t *testing.T) {
	var received []Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(pushResponse{Data: []ticket{{Status: "ok"}}})
	}))
	defer srv.Close()

	c := NewClient()
	c.URL = srv.URL

	err := c.Send(context.Background(), "ExponentPushToken[abc]", "Title", "Body", map[string]string{"alert_id": "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("server received %d messages, want 1", len(received))
	}
	if received[0].To != "ExponentPushToken[abc]" || received[0].Title != "Title" {
		t.Errorf("unexpected message: %+v", received[0])
	}
}

func TestSendRejectedTicket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(pushResponse{Data: []ticket{{Status: "error", Message: "DeviceNotRegistered"}}})
	}))
	defer srv.Close()

	c := NewClient()
	c.URL = srv.URL

	if err := c.Send(context.Background(), "ExponentPushToken[abc]", "t", "b", nil); err == nil {
		t.Fatal("expected error for rejected ticket")
	}
}

func TestSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient()
	c.URL = srv.URL

	if err := c.Send(context.Background(), "ExponentPushToken[abc]", "t", "b", nil); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
