package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/config"
	"github.com/Gavin-Payne/Adrenyline-sub001/scheduler/scheduler_jobs"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/common"
	"github.com/Gavin-Payne/Adrenyline-sub001/services/lockService"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	taskSettle = "wager_settlement"
	taskExpire = "wager_expiration"
)

// SetupCron registers the reconciliation jobs and returns the unstarted
// scheduler. A tick that fires while the same job is still running is
// skipped; the lease extends that guarantee across processes.
func SetupCron(cfg config.SchedulerConfig, db *gorm.DB, locker lockService.Locker, settler scheduler_jobs.Settler, reclaimer scheduler_jobs.Reclaimer) (*cron.Cron, error) {
	logger := cronLogger{log: slog.Default().With("component", "cron")}
	cronService := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	jobs := []struct {
		spec string
		name string
		run  func(ctx context.Context) error
	}{
		{cfg.SettleSpec, taskSettle, func(ctx context.Context) error {
			return scheduler_jobs.CheckWagerSettlement(ctx, settler)
		}},
		{cfg.ExpireSpec, taskExpire, func(ctx context.Context) error {
			return scheduler_jobs.CheckWagerExpiration(ctx, reclaimer)
		}},
	}

	for _, job := range jobs {
		run := Guarded(locker, job.name, cfg.LeaseTTL, job.run)
		if _, err := cronService.AddFunc(job.spec, func() {
			if err := run(context.Background()); err != nil {
				common.LogError(db, "CRON ERR", nil, fmt.Errorf("%s: %w", job.name, err))
			}
		}); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", job.name, job.spec, err)
		}
	}

	return cronService, nil
}

// Guarded runs job while holding the named lease. The job's context ends
// when the lease would expire, so a stuck run cannot outlive its lease. A
// lease held elsewhere skips the run without error.
func Guarded(locker lockService.Locker, name string, ttl time.Duration, job func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		release, err := locker.Acquire(ctx, name, ttl)
		if errors.Is(err, lockService.ErrLockHeld) {
			slog.Debug("task already running elsewhere, skipping", "task", name)
			return nil
		}
		if err != nil {
			return fmt.Errorf("acquire %s lease: %w", name, err)
		}
		defer release()

		ctx, cancel := context.WithTimeout(ctx, ttl)
		defer cancel()

		start := time.Now()
		err = job(ctx)
		slog.Debug("task finished", "task", name, "elapsed", time.Since(start), "err", err)
		return err
	}
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "err", err)...)
}
