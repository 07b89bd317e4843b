package models

import (
	"testing"
	"time"
)

func TestActivityOverdue(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name   string
		status ActivityStatus
		date   time.Time
		want   bool
	}{
		{"pending in the past", ActivityPending, past, true},
		{"in progress in the past", ActivityInProgress, past, true},
		{"done in the past", ActivityDone, past, false},
		{"cancelled in the past", ActivityCancelled, past, false},
		{"pending in the future", ActivityPending, future, false},
		{"pending right now", ActivityPending, now, false},
	}
	for _, tt := range tests {
		a := Activity{Status: tt.status, Date: tt.date}
		if got := a.Overdue(now); got != tt.want {
			t.Errorf("%s: Overdue = %v, want %v", tt.name, got, tt.want)
		}
	}
}
