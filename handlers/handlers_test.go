package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseStatementDate(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
		ok    bool
	}{
		{"2025-03-15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"15/03/2025", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2025-03-15T10:30:00Z", time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"15-03-2025", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		got, err := parseStatementDate(tt.value)
		if tt.ok != (err == nil) {
			t.Errorf("parseStatementDate(%q) error = %v, want ok=%v", tt.value, err, tt.ok)
			continue
		}
		if tt.ok && !got.Equal(tt.want) {
			t.Errorf("parseStatementDate(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestTransactionRequestUpdateDocs(t *testing.T) {
	area := bson.NewObjectID()
	category := bson.NewObjectID()

	req := &TransactionRequest{
		Title:    "groceries",
		Amount:   42.5,
		Date:     "2025-03-15",
		Area:     area.Hex(),
		Category: category.Hex(),
	}
	set, unset, err := req.updateDocs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := set["area"]; got != area {
		t.Errorf("set[area] = %v, want %v", got, area)
	}
	if got := set["category"]; got != category {
		t.Errorf("set[category] = %v, want %v", got, category)
	}
	if len(unset) != 0 {
		t.Errorf("unset = %v, want empty", unset)
	}

	// Omitted references are cleared, not set to the zero id.
	bare := &TransactionRequest{Title: "groceries", Amount: 42.5, Date: "2025-03-15"}
	set, unset, err = bare.updateDocs()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"area", "category"} {
		if _, ok := set[key]; ok {
			t.Errorf("set contains %s for omitted reference", key)
		}
		if _, ok := unset[key]; !ok {
			t.Errorf("unset missing %s for omitted reference", key)
		}
	}

	if _, _, err := (&TransactionRequest{Title: "x", Amount: 1, Date: "2025-03-15", Area: "nope"}).updateDocs(); err == nil {
		t.Errorf("malformed area id accepted")
	}
}

func TestIsHeaderRow(t *testing.T) {
	tests := []struct {
		record []string
		want   bool
	}{
		{[]string{"date", "title", "amount"}, true},
		{[]string{"Date", "Title", "Amount"}, true},
		{[]string{"Data", "Titolo", "Importo"}, true},
		{[]string{"2025-03-15", "groceries", "42.50"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isHeaderRow(tt.record); got != tt.want {
			t.Errorf("isHeaderRow(%v) = %v, want %v", tt.record, got, tt.want)
		}
	}
}

func TestValidGoalDates(t *testing.T) {
	tests := []struct {
		start, end string
		want       bool
	}{
		{"2025-01-01", "2025-06-30", true},
		{"2025-06-30", "2025-06-30", true},
		{"2025-07-01", "2025-06-30", false},
		{"01-01-2025", "2025-06-30", false},
		{"2025-01-01", "not a date", false},
	}
	for _, tt := range tests {
		if got := validGoalDates(tt.start, tt.end); got != tt.want {
			t.Errorf("validGoalDates(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestTrendPercent(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{150, 100, 50},
		{50, 100, -50},
		{100, 100, 0},
		{200, 0, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := trendPercent(tt.current, tt.previous); got != tt.want {
			t.Errorf("trendPercent(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestFinancialScore(t *testing.T) {
	perfect := &Insights{SavingsRate: 25, GoalsTotal: 4, GoalsDone: 4, MonthTrendPercent: -10}
	if got := financialScore(perfect); got != 100 {
		t.Errorf("score = %d, want 100", got)
	}

	broke := &Insights{SavingsRate: -10, MonthTrendPercent: 80}
	if got := financialScore(broke); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}

	mid := &Insights{SavingsRate: 10, GoalsTotal: 2, GoalsDone: 1, MonthTrendPercent: 15}
	got := financialScore(mid)
	if got <= 0 || got >= 100 {
		t.Errorf("score = %d, want between 0 and 100", got)
	}
}
