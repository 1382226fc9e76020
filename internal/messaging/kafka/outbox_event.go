package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rh-management/internal/shared/contextutil"

	"github.com/google/uuid"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

var (
	ErrOutboxMissingID      = errors.New("outbox event id is required")
	ErrOutboxMissingTopic   = errors.New("outbox event topic is required")
	ErrOutboxMissingPayload = errors.New("outbox event payload is required")
)

// OutboxEvent is a row of outbox_events. It is written in the same
// transaction as the state change it describes and published later by the
// producer worker.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

// NewOutboxEvent builds a pending event carrying payload as JSON and the
// request id found on ctx.
func NewOutboxEvent(ctx context.Context, aggregateType, aggregateID, eventType, topic string, payload any) (OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        OutboxStatusPending,
	}, nil
}

func (e OutboxEvent) Validate() error {
	switch {
	case e.ID == "":
		return ErrOutboxMissingID
	case e.Topic == "":
		return ErrOutboxMissingTopic
	case len(e.Payload) == 0:
		return ErrOutboxMissingPayload
	}
	switch e.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	}
	return fmt.Errorf("unknown outbox status %q", e.Status)
}
