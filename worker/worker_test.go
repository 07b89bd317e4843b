package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsJobs(t *testing.T) {
	pool := NewPool(2, time.Second)
	pool.Start()

	var ran int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		ok := pool.Submit(func(ctx context.Context) error {
			defer wg.Done()
			atomic.AddInt64(&ran, 1)
			return nil
		})
		if !ok {
			t.Fatal("submit to running pool returned false")
		}
	}
	wg.Wait()
	pool.Stop()

	if got := atomic.LoadInt64(&ran); got != 10 {
		t.Errorf("ran %d jobs, want 10", got)
	}
}

func TestPoolJobTimeout(t *testing.T) {
	pool := NewPool(1, 20*time.Millisecond)
	pool.Start()
	defer pool.Stop()

	done := make(chan error, 1)
	pool.Submit(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			done <- ctx.Err()
		case <-time.After(5 * time.Second):
			done <- nil
		}
		return nil
	})

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("job context error = %v, want deadline exceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job did not observe its timeout")
	}
}

func TestPoolRejectsAfterStop(t *testing.T) {
	pool := NewPool(1, time.Second)
	pool.Start()
	pool.Stop()

	if pool.Submit(func(ctx context.Context) error { return nil }) {
		t.Error("submit to stopped pool returned true")
	}
}
