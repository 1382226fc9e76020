package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"rh-management/internal/bootstrap"
	"rh-management/internal/employeerecord"
	"rh-management/internal/events"
	"rh-management/internal/i18n"
	"rh-management/internal/messaging/kafka/consumer"
	"rh-management/internal/payslip"
	"rh-management/internal/shared/config"
	"rh-management/internal/shared/counter"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newReader(broker, topic, group string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        group,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// RunConsumer generates payslips from generation requests and audits leave
// lifecycle events until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	in, err := connect(cfg, false)
	if err != nil {
		return err
	}
	defer in.Close()

	translator, err := i18n.New(cfg.DefaultLocale, logger)
	if err != nil {
		return err
	}
	payslipService := payslip.NewService(in.DB,
		payslip.NewRepository(in.GormDB),
		employeerecord.NewRepository(in.GormDB),
		counter.NewRepository(in.GormDB),
		payslip.WithTranslator(translator),
		payslip.WithLogger(logger),
	)
	audit := bootstrap.NewStdoutAuditLogger(logger)

	payslipReader := newReader(cfg.KafkaBroker, events.PayslipGenerationRequestedTopic, "rh-management-payslip")
	defer payslipReader.Close()
	auditReader := newReader(cfg.KafkaBroker, events.LeaveLifecycleTopic, "rh-management-leave-audit")
	defer auditReader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumer.Consume(ctx, payslipReader, consumer.PayslipGenerationHandler(payslipService, logger),
			logger.Named("payslip_generation"))
		return nil
	})
	g.Go(func() error {
		consumer.Consume(ctx, auditReader, consumer.LeaveAuditHandler(audit), logger.Named("leave_audit"))
		return nil
	})

	err = g.Wait()
	logger.Info("consumer shut down")
	return err
}
