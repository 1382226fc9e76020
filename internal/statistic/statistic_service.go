package statistic

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LeaveCounter interface {
	CountPendingCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type HireCounter interface {
	CountHiredBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type Service interface {
	Dashboard(ctx context.Context) (DashboardResponse, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("statistic.service")
		}
	}
}

type service struct {
	leaves LeaveCounter
	hires  HireCounter
	now    func() time.Time
	logger *zap.Logger
}

func NewService(leaves LeaveCounter, hires HireCounter, opts ...Option) Service {
	s := &service{
		leaves: leaves,
		hires:  hires,
		now:    time.Now,
		logger: zap.L().Named("statistic.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var hundred = decimal.NewFromInt(100)

// Rate returns the percent change from last to current with two decimals.
func Rate(current, last int64) decimal.Decimal {
	if last == 0 {
		return decimal.Zero
	}
	diff := decimal.NewFromInt(current - last)
	return diff.Div(decimal.NewFromInt(last)).Mul(hundred).Round(2)
}

func (s *service) Dashboard(ctx context.Context) (DashboardResponse, error) {
	now := s.now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	nextMonth := thisMonth.AddDate(0, 1, 0)

	pending, err := s.compare(ctx, s.leaves.CountPendingCreatedBetween, lastMonth, thisMonth, nextMonth)
	if err != nil {
		s.logger.Error("count pending leaves failed", zap.Error(err))
		return DashboardResponse{}, err
	}

	hires, err := s.compare(ctx, s.hires.CountHiredBetween, lastMonth, thisMonth, nextMonth)
	if err != nil {
		s.logger.Error("count hires failed", zap.Error(err))
		return DashboardResponse{}, err
	}

	return DashboardResponse{PendingLeaves: pending, Hires: hires}, nil
}

func (s *service) compare(
	ctx context.Context,
	count func(ctx context.Context, from, to time.Time) (int64, error),
	lastMonth, thisMonth, nextMonth time.Time,
) (MonthlyCount, error) {
	current, err := count(ctx, thisMonth, nextMonth)
	if err != nil {
		return MonthlyCount{}, err
	}
	last, err := count(ctx, lastMonth, thisMonth)
	if err != nil {
		return MonthlyCount{}, err
	}
	return MonthlyCount{CurrentMonth: current, LastMonth: last, Rate: Rate(current, last)}, nil
}
