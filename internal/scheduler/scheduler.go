package scheduler

import (
	"context"
	"time"

	"rh-management/internal/shared/retry"

	"go.uber.org/zap"
)

const (
	defaultAttempts = 6
	settleDelay     = time.Second
)

var defaultBackoff = retry.Backoff{Initial: time.Minute, Max: 15 * time.Minute}

// Job is a unit of work fired once per day. day is the scheduled date and
// stays the same across retries of one run.
type Job interface {
	Name() string
	Run(ctx context.Context, day time.Time) error
}

// Daily fires every registered job once a day at a fixed UTC time of day.
// A failing job is retried with backoff, so jobs must tolerate reruns.
type Daily struct {
	at       time.Duration
	jobs     []Job
	attempts int
	backoff  retry.Backoff
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Daily)

func WithClock(now func() time.Time) Option {
	return func(d *Daily) { d.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Daily) {
		if l != nil {
			d.logger = l.Named("scheduler")
		}
	}
}

// WithRetry sets how many times a failing job runs per day and the wait
// between runs.
func WithRetry(attempts int, backoff retry.Backoff) Option {
	return func(d *Daily) {
		if attempts > 0 {
			d.attempts = attempts
		}
		d.backoff = backoff
	}
}

// NewDaily schedules jobs at the given offset from midnight UTC.
func NewDaily(at time.Duration, jobs []Job, opts ...Option) *Daily {
	d := &Daily{
		at:       at,
		jobs:     jobs,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   zap.L().Named("scheduler"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NextRun returns the first instant at or after now that falls on the
// daily offset.
func NextRun(now time.Time, at time.Duration) time.Time {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	next := midnight.Add(at)
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start blocks until ctx is cancelled.
func (d *Daily) Start(ctx context.Context) {
	d.logger.Info("scheduler started", zap.Duration("at", d.at), zap.Int("jobs", len(d.jobs)))

	for {
		next := NextRun(d.now(), d.at)
		if err := retry.Sleep(ctx, next.Sub(d.now())); err != nil {
			d.logger.Info("scheduler stopped")
			return
		}

		d.RunOnce(ctx, next)

		// Step past the current slot so a fast run is not fired twice.
		if err := retry.Sleep(ctx, settleDelay); err != nil {
			d.logger.Info("scheduler stopped")
			return
		}
	}
}

// RunOnce runs every job in order for day. A failing job is retried up to
// the configured attempts and does not prevent the others from running. It
// returns the number of jobs that still failed.
func (d *Daily) RunOnce(ctx context.Context, day time.Time) int {
	failed := 0
	for _, job := range d.jobs {
		if err := d.run(ctx, job, day); err != nil {
			failed++
		}
	}
	return failed
}

func (d *Daily) run(ctx context.Context, job Job, day time.Time) error {
	log := d.logger.With(zap.String("job", job.Name()), zap.String("day", day.Format("2006-01-02")))

	var err error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		start := d.now()
		if err = job.Run(ctx, day); err == nil {
			log.Info("scheduled job finished", zap.Int("attempt", attempt), zap.Duration("took", d.now().Sub(start)))
			return nil
		}
		if attempt == d.attempts {
			break
		}

		wait := d.backoff.Delay(attempt)
		log.Warn("scheduled job failed, retrying",
			zap.Int("attempt", attempt), zap.Duration("retry_in", wait), zap.Error(err))
		if sleepErr := retry.Sleep(ctx, wait); sleepErr != nil {
			log.Warn("scheduled job retry abandoned", zap.Error(sleepErr))
			return err
		}
	}

	log.Error("scheduled job failed", zap.Int("attempts", d.attempts), zap.Error(err))
	return err
}
