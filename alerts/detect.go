package alerts

import (
	"fmt"
	"math"

	"github.com/garoto002/siku-backend/models"
)

// maxDetectorResults caps transaction-based detectors per run.
const maxDetectorResults = 50

// largeTransactionFloor is the minimum threshold for the large-transaction
// detector regardless of spending history.
const largeTransactionFloor = 500

// Candidate is one alert a detector wants to emit.
type Candidate struct {
	Kind    models.AlertKind
	Title   string
	Message string
	Meta    models.AlertMeta
}

// LargeTransactionThreshold is max(2 x lifetime average, 500).
func LargeTransactionThreshold(lifetimeAvg float64) float64 {
	return math.Max(lifetimeAvg*2, largeTransactionFloor)
}

// AnomalyThreshold is the current window's average plus three population
// standard deviations. A zero-variance window collapses to the average.
func AnomalyThreshold(stats models.WindowStats) float64 {
	return stats.Avg + 3*stats.StdDev
}

// evalSpendingIncrease compares per-category sums between the current and
// previous windows. A category fires when its delta exceeds the absolute
// minimum and the relative growth meets the percentage threshold; a
// category absent from the previous window counts as 100% growth.
func evalSpendingIncrease(current, previous []models.CategoryTotal, p Params) []Candidate {
	prevByCategory := make(map[string]float64, len(previous))
	for _, row := range previous {
		prevByCategory[row.Category] = row.Total
	}

	var out []Candidate
	for _, row := range current {
		prev := prevByCategory[row.Category]
		delta := row.Total - prev
		percent := 100.0
		if prev > 0 {
			percent = delta / prev * 100
		}
		if delta > p.AbsoluteMin && percent >= p.IncreaseThreshold {
			rounded := int(math.Round(percent))
			out = append(out, Candidate{
				Kind:  models.AlertSpendingIncrease,
				Title: "Spending increase detected",
				Message: fmt.Sprintf("Category %s is up %d%% (Δ %.2f) over the last %d days.",
					row.Category, rounded, delta, p.PeriodDays),
				Meta: models.SpendingIncreaseMeta{
					Category: row.Category,
					Current:  row.Total,
					Previous: prev,
					Percent:  rounded,
				},
			})
		}
	}
	return out
}

func evalLargeTransactions(expenses []models.Expense) []Candidate {
	var out []Candidate
	for _, e := range expenses {
		out = append(out, Candidate{
			Kind:  models.AlertLargeTransaction,
			Title: "Large transaction detected",
			Message: fmt.Sprintf("Expense of %.2f on %s (%s).",
				e.Amount, expenseLabel(e), e.Date.Format("2006-01-02")),
			Meta: models.LargeTransactionMeta{
				ExpenseID: e.ID.Hex(),
				Amount:    e.Amount,
			},
		})
	}
	return out
}

// evalRecurringExpenses keeps categories seen in at least three distinct
// month buckets whose average bucket sum meets the absolute minimum.
func evalRecurringExpenses(buckets []models.CategoryMonthly, absoluteMin float64) []Candidate {
	var out []Candidate
	for _, b := range buckets {
		if b.Months < 3 || b.AvgBucket < absoluteMin {
			continue
		}
		rounded := math.Round(b.AvgBucket)
		out = append(out, Candidate{
			Kind:  models.AlertRecurringExpense,
			Title: "Recurring expense detected",
			Message: fmt.Sprintf("Category %s averages %.0f per month over the last 3 months.",
				b.Category, rounded),
			Meta: models.RecurringExpenseMeta{
				Category:   b.Category,
				MonthlyAvg: rounded,
			},
		})
	}
	return out
}

// evalGoalReminders emits a reminder for every unfinished goal starting on
// or before the deadline date. Goal dates are calendar-date strings, so
// the comparison is lexicographic.
func evalGoalReminders(goals []models.Goal, deadline string) []Candidate {
	var out []Candidate
	for _, g := range goals {
		if g.Status == models.GoalDone || g.StartDate > deadline {
			continue
		}
		out = append(out, Candidate{
			Kind:    models.AlertGoalReminder,
			Title:   "Goal reminder",
			Message: fmt.Sprintf("Goal %q starts on %s. Time to plan and execute.", g.Title, g.StartDate),
			Meta: models.GoalReminderMeta{
				GoalID: g.ID.Hex(),
			},
		})
	}
	return out
}

func evalAnomalies(expenses []models.Expense, windowAvg float64) []Candidate {
	var out []Candidate
	for _, e := range expenses {
		out = append(out, Candidate{
			Kind:  models.AlertAnomalies,
			Title: "Anomaly detected",
			Message: fmt.Sprintf("Unusual expense of %.2f on %s (window average %.0f).",
				e.Amount, expenseLabel(e), math.Round(windowAvg)),
			Meta: models.AnomalyMeta{
				ExpenseID: e.ID.Hex(),
				Amount:    e.Amount,
				WindowAvg: math.Round(windowAvg),
			},
		})
	}
	return out
}

func expenseLabel(e models.Expense) string {
	if e.Title != "" {
		return e.Title
	}
	if e.Description != "" {
		return e.Description
	}
	return "no description"
}
