package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bookreview-backend/internal/config"
	"bookreview-backend/internal/shared"
	"bookreview-backend/pkg/logger"
)

type Scheduler struct {
	scheduler    *asynq.Scheduler
	workerConfig config.WorkerConfig
}

func NewScheduler(redisCfg config.RedisConfig, workerCfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisCfg.Host,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:    scheduler,
		workerConfig: workerCfg,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerReconcileRatingsJob()
}

// ================================================
// JOB 1: Reconcile Ratings (every 6 hours by default)
// ================================================
// Rating aggregates are recomputed on every review write, but a crash
// between the review write and the aggregate write leaves a book stale.
// The sweep recomputes every book from its reviews.
func (s *Scheduler) registerReconcileRatingsJob() error {
	payload, err := json.Marshal(shared.ReconcileRatingsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeReconcileRatings, payload)

	_, err = s.scheduler.Register(
		s.workerConfig.ReconcileSchedule,
		task,
		asynq.Queue(shared.QueueRating),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ReconcileRatings job", err)
		return err
	}

	logger.Info("✓ Registered ReconcileRatings", map[string]interface{}{
		"schedule": s.workerConfig.ReconcileSchedule,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
