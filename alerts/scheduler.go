package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/garoto002/siku-backend/logger"
	"github.com/garoto002/siku-backend/worker"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	dailySchedule  = "0 2 * * *"
	weeklySchedule = "0 3 * * 1"
)

// Scheduler triggers detection batches on fixed cadences: daily with each
// user's own period settings, weekly with a forced 7-day period. Per-user
// work runs through a bounded worker pool with a per-user timeout; one
// user's failure never halts the batch.
type Scheduler struct {
	engine *Engine
	pool   *worker.Pool
	cron   *cron.Cron
}

func NewScheduler(engine *Engine, pool *worker.Pool) *Scheduler {
	return &Scheduler{
		engine: engine,
		pool:   pool,
		cron:   cron.New(cron.WithLocation(time.UTC)),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(dailySchedule, func() {
		s.RunBatch(context.Background(), "daily", Overrides{})
	}); err != nil {
		return err
	}

	weekly := 7
	if _, err := s.cron.AddFunc(weeklySchedule, func() {
		s.RunBatch(context.Background(), "weekly", Overrides{PeriodDays: &weekly})
	}); err != nil {
		return err
	}

	s.cron.Start()
	logger.Get().Info("alert scheduler started",
		zap.String("daily", dailySchedule),
		zap.String("weekly", weeklySchedule))
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Get().Info("alert scheduler stopped")
}

// RunBatch runs detection for every alert-enabled user and waits for the
// batch to finish, returning how many alerts were created and how many
// users failed. Exposed for the manual cadence trigger as well as the
// cron callbacks. A rejected pool submission counts as a failed user.
func (s *Scheduler) RunBatch(ctx context.Context, cadence string, o Overrides) (created, failed int) {
	batchID := uuid.NewString()
	log := logger.Get().With(
		zap.String("batch_id", batchID),
		zap.String("cadence", cadence))

	userIDs, err := s.engine.Store.ListAlertEnabledUserIDs(ctx)
	if err != nil {
		log.Error("failed to list users for detection batch", zap.Error(err))
		return 0, 0
	}
	log.Info("detection batch starting", zap.Int("users", len(userIDs)))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, userID := range userIDs {
		userID := userID
		wg.Add(1)
		submitted := s.pool.Submit(func(jobCtx context.Context) error {
			defer wg.Done()
			result, err := s.engine.Run(jobCtx, userID, o)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.Error("detection failed for user",
					zap.String("user_id", userID.Hex()),
					zap.Error(err))
				return err
			}
			created += result.CreatedCount
			return nil
		})
		if !submitted {
			wg.Done()
			mu.Lock()
			failed++
			mu.Unlock()
			log.Error("detection job rejected by worker pool",
				zap.String("user_id", userID.Hex()))
		}
	}
	wg.Wait()

	log.Info("detection batch finished",
		zap.Int("users", len(userIDs)),
		zap.Int("alerts_created", created),
		zap.Int("users_failed", failed))
	return created, failed
}
