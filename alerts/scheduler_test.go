package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/garoto002/siku-backend/models"
	"github.com/garoto002/siku-backend/worker"
)

func TestRunBatchCountsCreated(t *testing.T) {
	store := &fakeStore{
		user: testUser(models.DefaultAlertSettings()),
		goals: []models.Goal{
			{Title: "trip", StartDate: "2025-07-01", Status: models.GoalPending},
		},
	}
	engine := newTestEngine(store)

	pool := worker.NewPool(2, time.Second)
	pool.Start()
	defer pool.Stop()

	scheduler := NewScheduler(engine, pool)
	created, failed := scheduler.RunBatch(context.Background(), "manual", Overrides{})
	if failed != 0 {
		t.Fatalf("failed = %d, want 0", failed)
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if len(store.inserted) != 1 {
		t.Errorf("inserted %d alerts, want 1", len(store.inserted))
	}
}

func TestRunBatchCountsRejectedSubmissions(t *testing.T) {
	store := &fakeStore{user: testUser(models.DefaultAlertSettings())}
	engine := newTestEngine(store)

	pool := worker.NewPool(1, time.Second)
	pool.Start()
	pool.Stop()

	scheduler := NewScheduler(engine, pool)
	created, failed := scheduler.RunBatch(context.Background(), "manual", Overrides{})
	if created != 0 {
		t.Errorf("created = %d, want 0", created)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}
