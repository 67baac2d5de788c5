package workers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobboard/internal/services"
)

// ExpiryWorker periodically closes active jobs whose deadline has passed.
// With Redis set, a short lock keeps concurrent instances from sweeping
// at the same time.
type ExpiryWorker struct {
	Jobs     services.JobService
	Redis    redis.UniversalClient
	Interval time.Duration
	LockKey  string

	Logger *logrus.Logger
}

func (w *ExpiryWorker) Start(ctx context.Context) error {
	if w.Jobs == nil {
		return errors.New("ExpiryWorker missing dependency: Jobs must be set")
	}
	if w.Interval <= 0 {
		w.Interval = 10 * time.Minute
	}
	if w.LockKey == "" {
		w.LockKey = "jobboard:lock:job-expiry"
	}
	if w.Logger == nil {
		w.Logger = logrus.New()
	}

	go w.run(ctx)
	return nil
}

func (w *ExpiryWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
			w.Logger.WithError(err).Error("job expiry sweep failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single sweep. It returns 0 without error when another
// instance holds the lock.
func (w *ExpiryWorker) RunOnce(ctx context.Context) (int64, error) {
	if w.Redis != nil {
		ok, err := w.Redis.SetNX(ctx, w.LockKey, "1", w.Interval/2).Result()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
	}

	n, err := w.Jobs.CloseExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		w.Logger.WithField("closed", n).Info("expired jobs closed")
	}
	return n, nil
}
