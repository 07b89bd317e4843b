package handlers

import (
	"testing"
	"time"
)

func TestParseActivityDate(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		value string
		want  time.Time
		ok    bool
	}{
		{"", now, true},
		{"2025-03-15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2025-03-15T10:30:00Z", time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"15/03/2025", time.Time{}, false},
		{"tomorrow", time.Time{}, false},
	}
	for _, tt := range tests {
		got, err := parseActivityDate(tt.value, now)
		if tt.ok != (err == nil) {
			t.Errorf("parseActivityDate(%q) error = %v, want ok=%v", tt.value, err, tt.ok)
			continue
		}
		if tt.ok && !got.Equal(tt.want) {
			t.Errorf("parseActivityDate(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestValidActivityTimes(t *testing.T) {
	tests := []struct {
		start, end string
		want       bool
	}{
		{"", "", true},
		{"09:00", "", true},
		{"", "17:30", true},
		{"09:00", "17:30", true},
		{"17:30", "09:00", false},
		{"09:00", "09:00", false},
		{"9am", "17:30", false},
		{"09:00", "25:00", false},
	}
	for _, tt := range tests {
		if got := validActivityTimes(tt.start, tt.end); got != tt.want {
			t.Errorf("validActivityTimes(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}
