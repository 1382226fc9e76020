package accrual

import (
	"context"
	"database/sql"
	"time"

	"rh-management/internal/balance"
	"rh-management/internal/employee"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	runGuardPrefix = "accrual:run:"
	runGuardTTL    = 26 * time.Hour
)

type Result struct {
	Date    string `json:"date"`
	Scanned int    `json:"scanned"`
	Accrued int    `json:"accrued"`
	// Skipped counts anniversaries already credited for this month.
	Skipped int `json:"skipped"`
	// AlreadyProcessed is set when another run holds or completed the date.
	AlreadyProcessed bool `json:"already_processed"`
}

// Job credits the monthly holiday and permission days to every employee
// whose hire-date anniversary is today.
type Job struct {
	db        *sql.DB
	employees employee.Repository
	rdb       *redis.Client
	logger    *zap.Logger
}

type Option func(*Job)

func WithLogger(l *zap.Logger) Option {
	return func(j *Job) {
		if l != nil {
			j.logger = l.Named("accrual.job")
		}
	}
}

// NewJob builds the accrual job. rdb may be nil; the per-employee month
// marker alone then guards against double credit.
func NewJob(db *sql.DB, employees employee.Repository, rdb *redis.Client, opts ...Option) *Job {
	j := &Job{
		db:        db,
		employees: employees,
		rdb:       rdb,
		logger:    zap.L().Named("accrual.job"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Job) Name() string {
	return "balance_accrual"
}

func (j *Job) Run(ctx context.Context, day time.Time) error {
	_, err := j.RunFor(ctx, day)
	return err
}

// RunFor processes every employee for the given day inside one
// transaction. Any failure rolls the whole batch back.
func (j *Job) RunFor(ctx context.Context, today time.Time) (Result, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	month := MonthKey(today)
	res := Result{Date: today.Format("2006-01-02")}
	log := j.logger.With(zap.String("date", res.Date))

	guardKey := runGuardPrefix + res.Date
	held := false
	if j.rdb != nil {
		ok, err := j.rdb.SetNX(ctx, guardKey, "1", runGuardTTL).Result()
		switch {
		case err != nil:
			log.Warn("accrual run guard unavailable, continuing without it", zap.Error(err))
		case !ok:
			log.Info("accrual already processed for date")
			res.AlreadyProcessed = true
			return res, nil
		default:
			held = true
		}
	}

	if err := j.process(ctx, today, month, &res); err != nil {
		log.Error("accrual run failed", zap.Error(err))
		if held {
			j.release(guardKey)
		}
		return Result{Date: res.Date}, err
	}

	log.Info("accrual run completed",
		zap.String("month", month),
		zap.Int("scanned", res.Scanned),
		zap.Int("accrued", res.Accrued),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (j *Job) process(ctx context.Context, today time.Time, month string, res *Result) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qemp := j.employees.WithTx(tx)

	employees, err := qemp.ListForAccrual(ctx)
	if err != nil {
		return err
	}

	for i := range employees {
		e := &employees[i]
		res.Scanned++

		if e.HireDate == nil || !ShouldAccrue(*e.HireDate, today) {
			continue
		}
		if e.LastAccrualMonth != nil && *e.LastAccrualMonth == month {
			res.Skipped++
			continue
		}

		before := e.Ledger
		e.Ledger.Accrue(balance.MonthlyHolidayDays, balance.MonthlyPermissionDays)
		e.LastAccrualMonth = &month

		if err := qemp.SaveLedger(ctx, e); err != nil {
			return err
		}
		res.Accrued++

		j.logger.Debug("employee balance accrued",
			zap.String("employee_id", e.ID.String()),
			zap.String("hire_date", e.HireDate.Format("2006-01-02")),
			zap.Int("holiday_before", before.Holiday),
			zap.Int("holiday_after", e.Holiday),
			zap.Int("permission_before", before.Permission),
			zap.Int("permission_after", e.Permission),
		)
	}

	return tx.Commit()
}

// release lets a failed run be retried the same day.
func (j *Job) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := j.rdb.Del(ctx, key).Err(); err != nil {
		j.logger.Warn("release accrual run guard failed", zap.String("key", key), zap.Error(err))
	}
}
