package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"rh-management/internal/accrual"
	"rh-management/internal/employee"
	"rh-management/internal/employeerecord"
	"rh-management/internal/messaging/kafka"
	"rh-management/internal/messaging/kafka/producer"
	"rh-management/internal/payslip"
	"rh-management/internal/scheduler"
	"rh-management/internal/shared/config"
	"rh-management/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunWorker runs the outbox producer and the daily jobs until SIGINT or
// SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	in, err := connect(cfg, true)
	if err != nil {
		return err
	}
	defer in.Close()

	at, err := config.ParseClock(cfg.AccrualRunAt)
	if err != nil {
		return err
	}

	outboxRepo := kafka.NewOutboxRepository(in.DB)
	jobs := []scheduler.Job{
		accrual.NewJob(in.DB, employee.NewRepository(in.GormDB), in.Redis, accrual.WithLogger(logger)),
		payslip.NewRequestJob(in.DB, employeerecord.NewRepository(in.GormDB), outboxRepo, cfg.PayslipDay,
			payslip.WithJobLogger(logger)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.NewDaily(at, jobs, scheduler.WithLogger(logger)).Start(ctx)
		return nil
	})

	if cfg.KafkaBroker == "" {
		logger.Warn("KAFKA_BROKER not set, outbox events stay pending")
	} else {
		writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		defer writer.Close()

		g.Go(func() error {
			producer.ProcessOutboxEvents(ctx, in.DB, outboxRepo, writer, logger, 3*time.Second)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("worker shut down")
	return err
}
