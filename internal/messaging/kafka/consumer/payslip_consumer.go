package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"rh-management/internal/events"
	"rh-management/internal/payslip"
	paysliperrors "rh-management/internal/payslip/errors"
	"rh-management/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PayslipGenerationHandler builds the payslip named by each generation
// request. A payslip that already exists for the month is skipped.
func PayslipGenerationHandler(svc payslip.Service, logger *zap.Logger) HandleFunc {
	log := logger.Named("kafka.consumer.payslip_generation")

	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.PayslipGenerationRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return Permanent(err)
		}
		if rid := header(msg, "request_id"); rid != "" {
			ctx = contextutil.WithRequestID(ctx, rid)
		}

		_, err := svc.Generate(ctx, event.EmployeeID, event.Month)
		switch {
		case err == nil:
			log.Info("payslip generated from request",
				zap.String("employee_id", event.EmployeeID),
				zap.String("month", event.Month),
			)
			return nil
		case errors.Is(err, paysliperrors.ErrPayslipAlreadyExists):
			log.Warn("payslip already exists for request, skipping",
				zap.String("employee_id", event.EmployeeID),
				zap.String("month", event.Month),
			)
			return nil
		case errors.Is(err, paysliperrors.ErrEmployeeRecordNotFound),
			errors.Is(err, paysliperrors.ErrInvalidEmployeeID),
			errors.Is(err, paysliperrors.ErrInvalidMonth):
			return Permanent(err)
		default:
			return err
		}
	}
}
