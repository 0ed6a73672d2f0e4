package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"vasilestie-backend/internal/shared"
	"vasilestie-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
	}
}

func (s *Scheduler) RegisterJobs() error {
	if err := s.registerExpireSubscriptionsJob(); err != nil {
		return err
	}

	if err := s.registerCleanupSessionsJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Expire Subscriptions (Daily at 1 AM)
// ================================================
// Craftsmen whose subscription end date passed are flipped to EXPIRED and
// hidden from public listings. Reads already treat them as expired, the
// sweep persists the status.
func (s *Scheduler) registerExpireSubscriptionsJob() error {
	payload, err := json.Marshal(shared.ExpireSubscriptionsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireSubscriptions, payload)

	_, err = s.scheduler.Register(
		"0 1 * * *", // Daily at 1 AM
		task,
		asynq.Queue(shared.QueueCraftsman),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ExpireSubscriptions job", err)
		return err
	}

	logger.Info("✓ Registered ExpireSubscriptions: daily at 1 AM", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Cleanup Expired Sessions (Daily at 2 AM)
// ================================================
// Removes refresh sessions past their expiry so the sessions table does
// not grow unbounded.
func (s *Scheduler) registerCleanupSessionsJob() error {
	payload, err := json.Marshal(shared.CleanupSessionsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupSessions, payload)

	_, err = s.scheduler.Register(
		"0 2 * * *", // Daily at 2 AM, staggered from the subscription sweep
		task,
		asynq.Queue(shared.QueueUser),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register CleanupSessions job", err)
		return err
	}

	logger.Info("✓ Registered CleanupSessions: daily at 2 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
