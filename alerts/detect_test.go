package alerts

import (
	"testing"
	"time"

	"github.com/garoto002/siku-backend/models"
)

func TestDetectionWindows(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	current, previous := DetectionWindows(now, 30)

	if !current.To.Equal(now) {
		t.Errorf("current.To = %v, want %v", current.To, now)
	}
	wantStart := time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
	if !current.From.Equal(wantStart) {
		t.Errorf("current.From = %v, want %v", current.From, wantStart)
	}
	if !previous.To.Equal(current.From) {
		t.Errorf("windows not contiguous: previous.To = %v, current.From = %v", previous.To, current.From)
	}
	wantPrevStart := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	if !previous.From.Equal(wantPrevStart) {
		t.Errorf("previous.From = %v, want %v", previous.From, wantPrevStart)
	}
}

func TestEvalSpendingIncrease(t *testing.T) {
	params := Params{PeriodDays: 30, IncreaseThreshold: 30, AbsoluteMin: 30}

	tests := []struct {
		name     string
		current  []models.CategoryTotal
		previous []models.CategoryTotal
		params   Params
		want     int
	}{
		{
			name:     "40% growth over minimum fires",
			current:  []models.CategoryTotal{{Category: "food", Total: 140}},
			previous: []models.CategoryTotal{{Category: "food", Total: 100}},
			params:   params,
			want:     1,
		},
		{
			name:     "delta below absolute minimum suppresses",
			current:  []models.CategoryTotal{{Category: "food", Total: 140}},
			previous: []models.CategoryTotal{{Category: "food", Total: 100}},
			params:   Params{PeriodDays: 30, IncreaseThreshold: 30, AbsoluteMin: 50},
			want:     0,
		},
		{
			name:     "percent below threshold suppresses",
			current:  []models.CategoryTotal{{Category: "food", Total: 125}},
			previous: []models.CategoryTotal{{Category: "food", Total: 100}},
			params:   Params{PeriodDays: 30, IncreaseThreshold: 30, AbsoluteMin: 10},
			want:     0,
		},
		{
			name:    "new category counts as 100% growth",
			current: []models.CategoryTotal{{Category: "travel", Total: 200}},
			params:  params,
			want:    1,
		},
		{
			name:    "new category still needs the absolute minimum",
			current: []models.CategoryTotal{{Category: "travel", Total: 20}},
			params:  params,
			want:    0,
		},
		{
			name:     "decreased category never fires",
			current:  []models.CategoryTotal{{Category: "food", Total: 80}},
			previous: []models.CategoryTotal{{Category: "food", Total: 200}},
			params:   params,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalSpendingIncrease(tt.current, tt.previous, tt.params)
			if len(got) != tt.want {
				t.Errorf("got %d candidates, want %d", len(got), tt.want)
			}
		})
	}
}

func TestEvalSpendingIncreasePercentForNewCategory(t *testing.T) {
	got := evalSpendingIncrease(
		[]models.CategoryTotal{{Category: "travel", Total: 200}},
		nil,
		Params{PeriodDays: 30, IncreaseThreshold: 30, AbsoluteMin: 100},
	)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	meta, ok := got[0].Meta.(models.SpendingIncreaseMeta)
	if !ok {
		t.Fatalf("meta type = %T, want SpendingIncreaseMeta", got[0].Meta)
	}
	if meta.Percent != 100 {
		t.Errorf("percent = %d, want 100", meta.Percent)
	}
	if meta.Previous != 0 {
		t.Errorf("previous = %v, want 0", meta.Previous)
	}
}

func TestLargeTransactionThreshold(t *testing.T) {
	tests := []struct {
		lifetimeAvg float64
		want        float64
	}{
		{0, 500},
		{100, 500},
		{250, 500},
		{400, 800},
		{1000, 2000},
	}
	for _, tt := range tests {
		if got := LargeTransactionThreshold(tt.lifetimeAvg); got != tt.want {
			t.Errorf("LargeTransactionThreshold(%v) = %v, want %v", tt.lifetimeAvg, got, tt.want)
		}
	}
}

func TestAnomalyThreshold(t *testing.T) {
	stats := models.WindowStats{Avg: 100, StdDev: 20, Count: 10}
	if got := AnomalyThreshold(stats); got != 160 {
		t.Errorf("AnomalyThreshold = %v, want 160", got)
	}

	// Zero variance collapses the threshold to the average; the strict
	// comparison in the query keeps equal-valued expenses from flagging.
	flat := models.WindowStats{Avg: 50, StdDev: 0, Count: 5}
	if got := AnomalyThreshold(flat); got != 50 {
		t.Errorf("AnomalyThreshold with zero variance = %v, want 50", got)
	}
}

func TestEvalRecurringExpenses(t *testing.T) {
	buckets := []models.CategoryMonthly{
		{Category: "rent", Months: 3, AvgBucket: 900},
		{Category: "coffee", Months: 2, AvgBucket: 900},
		{Category: "snacks", Months: 3, AvgBucket: 40},
	}
	got := evalRecurringExpenses(buckets, 100)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	meta := got[0].Meta.(models.RecurringExpenseMeta)
	if meta.Category != "rent" {
		t.Errorf("category = %q, want rent", meta.Category)
	}
	if meta.MonthlyAvg != 900 {
		t.Errorf("monthly avg = %v, want 900", meta.MonthlyAvg)
	}
}

func TestEvalGoalReminders(t *testing.T) {
	goals := []models.Goal{
		{Title: "soon", StartDate: "2025-07-05", Status: models.GoalPending},
		{Title: "finished", StartDate: "2025-07-05", Status: models.GoalDone},
		{Title: "far out", StartDate: "2025-08-01", Status: models.GoalPending},
		{Title: "boundary", StartDate: "2025-07-07", Status: models.GoalInProgress},
	}
	got := evalGoalReminders(goals, "2025-07-07")
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
}

func TestResolveParams(t *testing.T) {
	settings := models.AlertSettings{PeriodDays: 30, IncreaseThreshold: 30, AbsoluteMin: 100}

	p := resolveParams(settings, Overrides{})
	if p.PeriodDays != 30 || p.IncreaseThreshold != 30 || p.AbsoluteMin != 100 {
		t.Errorf("unexpected defaults: %+v", p)
	}

	week := 7
	threshold := 50.0
	p = resolveParams(settings, Overrides{PeriodDays: &week, IncreaseThreshold: &threshold})
	if p.PeriodDays != 7 {
		t.Errorf("period = %d, want 7", p.PeriodDays)
	}
	if p.IncreaseThreshold != 50 {
		t.Errorf("increase threshold = %v, want 50", p.IncreaseThreshold)
	}
	if p.AbsoluteMin != 100 {
		t.Errorf("absolute min = %v, want 100", p.AbsoluteMin)
	}

	p = resolveParams(models.AlertSettings{}, Overrides{})
	if p.PeriodDays != 30 {
		t.Errorf("zero-value period = %d, want fallback 30", p.PeriodDays)
	}
}
