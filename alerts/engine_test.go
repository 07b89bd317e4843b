package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garoto002/siku-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeStore satisfies Store with canned data. Unset function fields fall
// back to empty results.
type fakeStore struct {
	user *models.User

	categorySums func(from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error)
	windowStats  models.WindowStats
	lifetimeAvg  float64
	buckets      []models.CategoryMonthly
	expensesOver func(threshold float64, inclusive bool) ([]models.Expense, error)
	goals        []models.Goal

	inserted     []models.Alert
	unreadByKey  map[string]bool
	statsErr     error
	insertErr    error
	hasUnreadErr error
}

func (f *fakeStore) GetUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return f.user, nil
}

func (f *fakeStore) ListAlertEnabledUserIDs(ctx context.Context) ([]bson.ObjectID, error) {
	if f.user == nil {
		return nil, nil
	}
	return []bson.ObjectID{f.user.ID}, nil
}

func (f *fakeStore) CategoryWindowSums(ctx context.Context, userID bson.ObjectID, from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
	if f.categorySums == nil {
		return nil, nil
	}
	return f.categorySums(from, to, closedUpper)
}

func (f *fakeStore) WindowStats(ctx context.Context, userID bson.ObjectID, from, to time.Time) (models.WindowStats, error) {
	return f.windowStats, f.statsErr
}

func (f *fakeStore) LifetimeAverage(ctx context.Context, userID bson.ObjectID) (float64, error) {
	return f.lifetimeAvg, nil
}

func (f *fakeStore) MonthlyCategoryBuckets(ctx context.Context, userID bson.ObjectID, now time.Time) ([]models.CategoryMonthly, error) {
	return f.buckets, nil
}

func (f *fakeStore) ExpensesOver(ctx context.Context, userID bson.ObjectID, from, to time.Time, threshold float64, inclusive bool, limit int64) ([]models.Expense, error) {
	if f.expensesOver == nil {
		return nil, nil
	}
	return f.expensesOver(threshold, inclusive)
}

func (f *fakeStore) UpcomingGoals(ctx context.Context, userID bson.ObjectID, startBefore string) ([]models.Goal, error) {
	return f.goals, nil
}

func (f *fakeStore) InsertAlert(ctx context.Context, alert *models.Alert) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	alert.ID = bson.NewObjectID()
	f.inserted = append(f.inserted, *alert)
	return nil
}

func (f *fakeStore) HasUnreadAlert(ctx context.Context, userID bson.ObjectID, dedupKey string) (bool, error) {
	if f.hasUnreadErr != nil {
		return false, f.hasUnreadErr
	}
	return f.unreadByKey[dedupKey], nil
}

func testUser(settings models.AlertSettings) *models.User {
	return &models.User{
		ID:            bson.NewObjectID(),
		Name:          "Test",
		Email:         "test@example.com",
		AlertSettings: settings,
	}
}

func newTestEngine(store *fakeStore) *Engine {
	engine := NewEngine(store, &Notifier{Store: store})
	engine.Now = func() time.Time {
		return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	}
	return engine
}

func TestRunUnknownUser(t *testing.T) {
	engine := newTestEngine(&fakeStore{})
	_, err := engine.Run(context.Background(), bson.NewObjectID(), Overrides{})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRunDisabledSettings(t *testing.T) {
	store := &fakeStore{user: testUser(models.AlertSettings{Enabled: false})}
	engine := newTestEngine(store)

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CreatedCount != 0 || len(result.Detectors) != 0 {
		t.Errorf("disabled settings still ran detectors: %+v", result)
	}
	if len(store.inserted) != 0 {
		t.Errorf("disabled settings inserted %d alerts", len(store.inserted))
	}
}

func TestRunDetectorOrder(t *testing.T) {
	store := &fakeStore{user: testUser(models.DefaultAlertSettings())}
	engine := newTestEngine(store)

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Detectors) != len(models.AllAlertKinds) {
		t.Fatalf("got %d detector statuses, want %d", len(result.Detectors), len(models.AllAlertKinds))
	}
	for i, kind := range models.AllAlertKinds {
		if result.Detectors[i].Kind != kind {
			t.Errorf("detector %d = %s, want %s", i, result.Detectors[i].Kind, kind)
		}
	}
}

func TestRunSkipsDisabledKinds(t *testing.T) {
	settings := models.DefaultAlertSettings()
	settings.Types[models.AlertGoalReminder] = false
	store := &fakeStore{
		user:  testUser(settings),
		goals: []models.Goal{{ID: bson.NewObjectID(), Title: "save up", StartDate: "2025-07-01", Status: models.GoalPending}},
	}
	engine := newTestEngine(store)

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, d := range result.Detectors {
		if d.Kind == models.AlertGoalReminder {
			if !d.Skipped {
				t.Errorf("goal_reminder not marked skipped")
			}
			if d.Created != 0 {
				t.Errorf("skipped detector created %d alerts", d.Created)
			}
		}
	}
	if len(store.inserted) != 0 {
		t.Errorf("skipped detector inserted %d alerts", len(store.inserted))
	}
}

func TestRunFailingDetectorDoesNotStopSiblings(t *testing.T) {
	store := &fakeStore{
		user:     testUser(models.DefaultAlertSettings()),
		statsErr: errors.New("aggregation timed out"),
		goals:    []models.Goal{{ID: bson.NewObjectID(), Title: "trip", StartDate: "2025-07-01", Status: models.GoalPending}},
	}
	engine := newTestEngine(store)

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var anomalies, reminders DetectorStatus
	for _, d := range result.Detectors {
		switch d.Kind {
		case models.AlertAnomalies:
			anomalies = d
		case models.AlertGoalReminder:
			reminders = d
		}
	}
	if anomalies.Error == "" {
		t.Errorf("anomalies detector did not report its failure")
	}
	if reminders.Created != 1 {
		t.Errorf("goal reminder created %d, want 1 despite sibling failure", reminders.Created)
	}
	if result.CreatedCount != 1 {
		t.Errorf("created count = %d, want 1", result.CreatedCount)
	}
}

func TestRunCreatesAlertsWithMeta(t *testing.T) {
	store := &fakeStore{
		user: testUser(models.DefaultAlertSettings()),
		categorySums: func(from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
			if closedUpper {
				return []models.CategoryTotal{{Category: "food", Total: 400}}, nil
			}
			return []models.CategoryTotal{{Category: "food", Total: 200}}, nil
		},
	}
	engine := newTestEngine(store)

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CreatedCount != 1 {
		t.Fatalf("created count = %d, want 1", result.CreatedCount)
	}
	alert := result.Created[0]
	if alert.Kind != models.AlertSpendingIncrease {
		t.Errorf("kind = %s, want spending_increase", alert.Kind)
	}
	if alert.Meta["category"] != "food" {
		t.Errorf("meta category = %v, want food", alert.Meta["category"])
	}
	if alert.DedupKey != "spending_increase:food" {
		t.Errorf("dedup key = %q", alert.DedupKey)
	}
}

func TestRunDuplicatesByDefault(t *testing.T) {
	store := &fakeStore{
		user: testUser(models.DefaultAlertSettings()),
		categorySums: func(from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
			if closedUpper {
				return []models.CategoryTotal{{Category: "food", Total: 400}}, nil
			}
			return []models.CategoryTotal{{Category: "food", Total: 200}}, nil
		},
	}
	engine := newTestEngine(store)

	for i := 0; i < 2; i++ {
		if _, err := engine.Run(context.Background(), store.user.ID, Overrides{}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if len(store.inserted) != 2 {
		t.Errorf("inserted %d alerts, want 2 duplicates", len(store.inserted))
	}
}

func TestRunDedupSuppresses(t *testing.T) {
	store := &fakeStore{
		user: testUser(models.DefaultAlertSettings()),
		categorySums: func(from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
			if closedUpper {
				return []models.CategoryTotal{{Category: "food", Total: 400}}, nil
			}
			return []models.CategoryTotal{{Category: "food", Total: 200}}, nil
		},
		unreadByKey: map[string]bool{"spending_increase:food": true},
	}
	engine := NewEngine(store, &Notifier{Store: store, Dedup: true})
	engine.Now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Suppressed != 1 {
		t.Errorf("suppressed = %d, want 1", result.Suppressed)
	}
	if len(store.inserted) != 0 {
		t.Errorf("inserted %d alerts, want 0", len(store.inserted))
	}
}

func TestRunDedupCheckFailureStillCreates(t *testing.T) {
	store := &fakeStore{
		user: testUser(models.DefaultAlertSettings()),
		categorySums: func(from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
			if closedUpper {
				return []models.CategoryTotal{{Category: "food", Total: 400}}, nil
			}
			return []models.CategoryTotal{{Category: "food", Total: 200}}, nil
		},
		hasUnreadErr: errors.New("connection reset"),
	}
	engine := NewEngine(store, &Notifier{Store: store, Dedup: true})
	engine.Now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CreatedCount != 1 {
		t.Errorf("created count = %d, want 1 when dedup check fails open", result.CreatedCount)
	}
}

type fakePush struct {
	sent []string
	err  error
}

func (p *fakePush) ValidToken(token string) bool { return true }

func (p *fakePush) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, title)
	return nil
}

func TestRunPushFailureRetainsAlert(t *testing.T) {
	settings := models.DefaultAlertSettings()
	store := &fakeStore{
		user: testUser(settings),
		categorySums: func(from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
			if closedUpper {
				return []models.CategoryTotal{{Category: "food", Total: 400}}, nil
			}
			return []models.CategoryTotal{{Category: "food", Total: 200}}, nil
		},
	}
	store.user.ExpoPushToken = "ExponentPushToken[abc123]"
	push := &fakePush{err: errors.New("expo unavailable")}
	engine := NewEngine(store, &Notifier{Store: store, Push: push})
	engine.Now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CreatedCount != 1 {
		t.Errorf("created count = %d, want 1 despite push failure", result.CreatedCount)
	}
	if len(store.inserted) != 1 {
		t.Errorf("alert not persisted after push failure")
	}
}

func TestRunNoPushWithoutExplicitKindToggle(t *testing.T) {
	// Settings documents predating the per-kind toggle map have Types
	// unset; alerts are still created, but nothing is pushed.
	store := &fakeStore{
		user: testUser(models.AlertSettings{Enabled: true, PeriodDays: 30, IncreaseThreshold: 30, AbsoluteMin: 100}),
		categorySums: func(from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
			if closedUpper {
				return []models.CategoryTotal{{Category: "food", Total: 400}}, nil
			}
			return []models.CategoryTotal{{Category: "food", Total: 200}}, nil
		},
	}
	store.user.ExpoPushToken = "ExponentPushToken[abc123]"
	push := &fakePush{}
	engine := NewEngine(store, &Notifier{Store: store, Push: push})
	engine.Now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }

	result, err := engine.Run(context.Background(), store.user.ID, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CreatedCount != 1 {
		t.Fatalf("created count = %d, want 1", result.CreatedCount)
	}
	if len(push.sent) != 0 {
		t.Errorf("sent %d pushes, want 0 when no kind is explicitly enabled", len(push.sent))
	}
}

func TestRunPushDelivery(t *testing.T) {
	store := &fakeStore{
		user: testUser(models.DefaultAlertSettings()),
		categorySums: func(from, to time.Time, closedUpper bool) ([]models.CategoryTotal, error) {
			if closedUpper {
				return []models.CategoryTotal{{Category: "food", Total: 400}}, nil
			}
			return []models.CategoryTotal{{Category: "food", Total: 200}}, nil
		},
	}
	store.user.ExpoPushToken = "ExponentPushToken[abc123]"
	push := &fakePush{}
	engine := NewEngine(store, &Notifier{Store: store, Push: push})
	engine.Now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }

	if _, err := engine.Run(context.Background(), store.user.ID, Overrides{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(push.sent) != 1 {
		t.Errorf("sent %d pushes, want 1", len(push.sent))
	}
}
