package alerts

import (
	"context"
	"errors"
	"time"

	"github.com/garoto002/siku-backend/logger"
	"github.com/garoto002/siku-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// ErrUserNotFound is returned when a detection run is requested for an
// unknown user id.
var ErrUserNotFound = errors.New("user not found")

// Store is the persistence surface the detection engine needs. Implemented
// by *mongodb.Store; tests substitute a fake.
type Store interface {
	GetUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	ListAlertEnabledUserIDs(ctx context.Context) ([]bson.ObjectID, error)

	CategoryWindowSums(ctx context.Context, userID bson.ObjectID, from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error)
	WindowStats(ctx context.Context, userID bson.ObjectID, from, to time.Time) (models.WindowStats, error)
	LifetimeAverage(ctx context.Context, userID bson.ObjectID) (float64, error)
	MonthlyCategoryBuckets(ctx context.Context, userID bson.ObjectID, now time.Time) ([]models.CategoryMonthly, error)
	ExpensesOver(ctx context.Context, userID bson.ObjectID, from, to time.Time, threshold float64, inclusive bool, limit int64) ([]models.Expense, error)
	UpcomingGoals(ctx context.Context, userID bson.ObjectID, startBefore string) ([]models.Goal, error)

	InsertAlert(ctx context.Context, alert *models.Alert) error
	HasUnreadAlert(ctx context.Context, userID bson.ObjectID, dedupKey string) (bool, error)
}

// Params are the thresholds one detection run evaluates against, resolved
// from the user's stored settings plus optional per-call overrides.
type Params struct {
	PeriodDays        int     `json:"period_days"`
	IncreaseThreshold float64 `json:"increase_threshold"`
	AbsoluteMin       float64 `json:"absolute_min"`
}

// Overrides optionally replace individual stored settings for a single
// run. The weekly schedule forces PeriodDays to 7 this way.
type Overrides struct {
	PeriodDays        *int     `json:"period_days,omitempty"`
	IncreaseThreshold *float64 `json:"increase_threshold,omitempty"`
	AbsoluteMin       *float64 `json:"absolute_min,omitempty"`
}

func resolveParams(settings models.AlertSettings, o Overrides) Params {
	p := Params{
		PeriodDays:        settings.PeriodDays,
		IncreaseThreshold: settings.IncreaseThreshold,
		AbsoluteMin:       settings.AbsoluteMin,
	}
	if p.PeriodDays <= 0 {
		p.PeriodDays = 30
	}
	if o.PeriodDays != nil && *o.PeriodDays > 0 {
		p.PeriodDays = *o.PeriodDays
	}
	if o.IncreaseThreshold != nil {
		p.IncreaseThreshold = *o.IncreaseThreshold
	}
	if o.AbsoluteMin != nil {
		p.AbsoluteMin = *o.AbsoluteMin
	}
	return p
}

// Window is a fixed-length calendar range used for aggregation.
type Window struct {
	From time.Time
	To   time.Time
}

// DetectionWindows splits history at "now" into the current window
// [now-P, now], closed on both ends, and the previous window
// [now-2P, now-P), half-open on its upper bound.
func DetectionWindows(now time.Time, periodDays int) (current, previous Window) {
	start := now.AddDate(0, 0, -periodDays)
	prevStart := start.AddDate(0, 0, -periodDays)
	return Window{From: start, To: now}, Window{From: prevStart, To: start}
}

// DetectorStatus reports one detector's outcome inside a run.
type DetectorStatus struct {
	Kind    models.AlertKind `json:"kind"`
	Created int              `json:"created"`
	Skipped bool             `json:"skipped,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// RunResult is what one detection run produced.
type RunResult struct {
	CreatedCount int              `json:"created_count"`
	Created      []models.Alert   `json:"created"`
	Detectors    []DetectorStatus `json:"detectors"`
	Suppressed   int              `json:"suppressed,omitempty"`
}

// Engine runs the alert rule set for one user at a time. It is stateless
// across runs; all state lives in the store.
type Engine struct {
	Store    Store
	Notifier *Notifier

	// Now is the reference clock, replaceable in tests.
	Now func() time.Time
}

func NewEngine(store Store, notifier *Notifier) *Engine {
	return &Engine{Store: store, Notifier: notifier, Now: time.Now}
}

type detector struct {
	kind models.AlertKind
	run  func(ctx context.Context) ([]Candidate, error)
}

// Run executes every enabled detector for the user in fixed order. A
// failing detector is logged and skipped; its siblings still run. The
// result reports per-detector status alongside the cumulative created
// list.
func (e *Engine) Run(ctx context.Context, userID bson.ObjectID, o Overrides) (*RunResult, error) {
	user, err := e.Store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	settings := user.AlertSettings
	result := &RunResult{Created: []models.Alert{}}
	if !settings.Enabled {
		return result, nil
	}

	p := resolveParams(settings, o)
	now := e.Now()
	current, previous := DetectionWindows(now, p.PeriodDays)

	detectors := []detector{
		{models.AlertSpendingIncrease, func(ctx context.Context) ([]Candidate, error) {
			cur, err := e.Store.CategoryWindowSums(ctx, userID, current.From, current.To, true)
			if err != nil {
				return nil, err
			}
			prev, err := e.Store.CategoryWindowSums(ctx, userID, previous.From, previous.To, false)
			if err != nil {
				return nil, err
			}
			return evalSpendingIncrease(cur, prev, p), nil
		}},
		{models.AlertLargeTransaction, func(ctx context.Context) ([]Candidate, error) {
			avg, err := e.Store.LifetimeAverage(ctx, userID)
			if err != nil {
				return nil, err
			}
			threshold := LargeTransactionThreshold(avg)
			expenses, err := e.Store.ExpensesOver(ctx, userID, current.From, current.To, threshold, true, maxDetectorResults)
			if err != nil {
				return nil, err
			}
			return evalLargeTransactions(expenses), nil
		}},
		{models.AlertRecurringExpense, func(ctx context.Context) ([]Candidate, error) {
			buckets, err := e.Store.MonthlyCategoryBuckets(ctx, userID, now)
			if err != nil {
				return nil, err
			}
			return evalRecurringExpenses(buckets, p.AbsoluteMin), nil
		}},
		{models.AlertGoalReminder, func(ctx context.Context) ([]Candidate, error) {
			deadline := now.AddDate(0, 0, 7).Format("2006-01-02")
			goals, err := e.Store.UpcomingGoals(ctx, userID, deadline)
			if err != nil {
				return nil, err
			}
			return evalGoalReminders(goals, deadline), nil
		}},
		{models.AlertAnomalies, func(ctx context.Context) ([]Candidate, error) {
			stats, err := e.Store.WindowStats(ctx, userID, current.From, current.To)
			if err != nil {
				return nil, err
			}
			threshold := AnomalyThreshold(stats)
			expenses, err := e.Store.ExpensesOver(ctx, userID, current.From, current.To, threshold, false, maxDetectorResults)
			if err != nil {
				return nil, err
			}
			return evalAnomalies(expenses, stats.Avg), nil
		}},
	}

	for _, d := range detectors {
		status := DetectorStatus{Kind: d.kind}
		if settings.Types != nil {
			if enabled, ok := settings.Types[d.kind]; ok && !enabled {
				status.Skipped = true
				result.Detectors = append(result.Detectors, status)
				continue
			}
		}

		candidates, err := d.run(ctx)
		if err != nil {
			logger.Get().Error("detector failed",
				zap.String("user_id", userID.Hex()),
				zap.String("detector", string(d.kind)),
				zap.Error(err))
			status.Error = err.Error()
			result.Detectors = append(result.Detectors, status)
			continue
		}

		for _, c := range candidates {
			outcome, err := e.Notifier.CreateAndNotify(ctx, user, c)
			if err != nil {
				logger.Get().Error("failed to persist alert",
					zap.String("user_id", userID.Hex()),
					zap.String("detector", string(d.kind)),
					zap.Error(err))
				status.Error = err.Error()
				continue
			}
			if outcome.Suppressed {
				result.Suppressed++
				continue
			}
			result.Created = append(result.Created, outcome.Alert)
			status.Created++
		}
		result.Detectors = append(result.Detectors, status)
	}

	result.CreatedCount = len(result.Created)
	return result, nil
}
