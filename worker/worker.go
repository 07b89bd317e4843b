package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/garoto002/siku-backend/logger"
	"go.uber.org/zap"
)

// Job is one unit of batch work, typically a single user's detection run.
// The context carries the per-job timeout.
type Job func(ctx context.Context) error

// Pool runs jobs on a fixed number of workers with a per-job timeout.
// Scheduled detection batches dispatch one job per user through it, so a
// slow or hanging user bounds only its own slot, not the whole batch.
type Pool struct {
	workers    int
	jobTimeout time.Duration
	jobs       chan Job
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	// Metrics
	mu            sync.RWMutex
	jobsProcessed uint64
	jobsFailed    uint64
	jobsDropped   uint64
	totalDuration uint64
}

func NewPool(workers int, jobTimeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:    workers,
		jobTimeout: jobTimeout,
		jobs:       make(chan Job, workers*4),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

func (p *Pool) Start() {
	logger.Get().Info("Starting worker pool",
		zap.Int("workers", p.workers),
		zap.Duration("job_timeout", p.jobTimeout))
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels the pool context and waits for the workers to exit. Jobs
// still queued are abandoned; the channel is left open so a racing Submit
// never panics.
func (p *Pool) Stop() {
	logger.Get().Info("Stopping worker pool")
	p.cancelFunc()
	p.wg.Wait()
}

// Submit queues a job, blocking while the buffer is full. Returns false if
// the pool is stopped.
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return p.drop()
	default:
	}

	select {
	case p.jobs <- job:
		return true
	case <-p.ctx.Done():
		return p.drop()
	}
}

func (p *Pool) drop() bool {
	p.mu.Lock()
	p.jobsDropped++
	p.mu.Unlock()
	logger.Get().Warn("Worker pool is stopped, job not submitted")
	return false
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	logger.Get().Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				logger.Get().Debug("Worker stopping", zap.Int("worker_id", id))
				return
			}
			p.runJob(id, job)
		case <-p.ctx.Done():
			logger.Get().Debug("Worker stopping due to context cancellation",
				zap.Int("worker_id", id))
			return
		}
	}
}

func (p *Pool) runJob(id int, job Job) {
	ctx := p.ctx
	var cancel context.CancelFunc
	if p.jobTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}

	startTime := time.Now()
	err := job(ctx)

	p.mu.Lock()
	p.jobsProcessed++
	p.totalDuration += uint64(time.Since(startTime).Milliseconds())
	if err != nil {
		p.jobsFailed++
	}
	p.mu.Unlock()

	if err != nil {
		logger.Get().Error("Job failed",
			zap.Int("worker_id", id),
			zap.Error(err))
	}
}

// MetricsHandler returns the current metrics as JSON
func (p *Pool) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var avgDuration float64
	if p.jobsProcessed > 0 {
		avgDuration = float64(p.totalDuration) / float64(p.jobsProcessed)
	}

	metrics := map[string]any{
		"jobs_processed":  p.jobsProcessed,
		"jobs_failed":     p.jobsFailed,
		"jobs_dropped":    p.jobsDropped,
		"avg_duration_ms": avgDuration,
		"active_workers":  p.workers,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}
