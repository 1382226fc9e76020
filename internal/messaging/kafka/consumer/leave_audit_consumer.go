package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"rh-management/internal/bootstrap"
	"rh-management/internal/events"

	kafkago "github.com/segmentio/kafka-go"
)

// LeaveAuditHandler writes every leave lifecycle event to the audit log.
func LeaveAuditHandler(audit bootstrap.AuditLogger) HandleFunc {
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.LeaveLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return Permanent(err)
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  strings.ToUpper(event.EventType),
			Message: "leave request " + strings.ToLower(event.State),
			Meta: map[string]any{
				"leave_id":      event.LeaveID,
				"employee_id":   event.EmployeeID,
				"actor_id":      event.ActorID,
				"leave_type":    event.LeaveType,
				"days":          event.Days,
				"balance_delta": event.BalanceDelta,
				"request_id":    header(msg, "request_id"),
				"occurred_at":   event.OccurredAt,
			},
		})
		return nil
	}
}
