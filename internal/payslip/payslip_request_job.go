package payslip

import (
	"context"
	"database/sql"
	"time"

	"rh-management/internal/employeerecord"
	"rh-management/internal/events"
	"rh-management/internal/messaging/kafka"

	"go.uber.org/zap"
)

// RequestJob queues one generation request per active employee record on
// the configured day of the month. The payslips themselves are built by
// the consumer of those events.
type RequestJob struct {
	db      *sql.DB
	records employeerecord.Repository
	outbox  kafka.OutboxRepository
	day     int
	logger  *zap.Logger
}

type JobOption func(*RequestJob)

func WithJobLogger(l *zap.Logger) JobOption {
	return func(j *RequestJob) {
		if l != nil {
			j.logger = l.Named("payslip.request_job")
		}
	}
}

func NewRequestJob(
	db *sql.DB,
	records employeerecord.Repository,
	outbox kafka.OutboxRepository,
	day int,
	opts ...JobOption,
) *RequestJob {
	j := &RequestJob{
		db:      db,
		records: records,
		outbox:  outbox,
		day:     day,
		logger:  zap.L().Named("payslip.request_job"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *RequestJob) Name() string {
	return "payslip_request"
}

func (j *RequestJob) Run(ctx context.Context, day time.Time) error {
	_, err := j.RunFor(ctx, day)
	return err
}

// RunFor returns the number of queued requests. Nothing is queued unless
// today is the pay day.
func (j *RequestJob) RunFor(ctx context.Context, today time.Time) (int, error) {
	if today.Day() != j.day {
		return 0, nil
	}
	month := today.Format(MonthLayout)

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := j.records.WithTx(tx).ListAll(ctx)
	if err != nil {
		j.logger.Error("list employee records failed", zap.Error(err))
		return 0, err
	}

	outbox := j.outbox.WithTx(tx)
	for _, r := range rows {
		payload := events.PayslipGenerationRequestedEvent{
			EventType:  events.PayslipGenerationRequested,
			EmployeeID: r.EmployeeID.String(),
			Month:      month,
			OccurredAt: today.UTC(),
		}
		event, err := kafka.NewOutboxEvent(ctx, events.PayslipAggregateType, r.ID.String(),
			events.PayslipGenerationRequested, events.PayslipGenerationRequestedTopic, payload)
		if err != nil {
			return 0, err
		}
		if err := outbox.Create(ctx, event); err != nil {
			j.logger.Error("queue payslip request failed", zap.String("employee_id", r.EmployeeID.String()), zap.Error(err))
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	j.logger.Info("payslip requests queued", zap.String("month", month), zap.Int("count", len(rows)))
	return len(rows), nil
}
