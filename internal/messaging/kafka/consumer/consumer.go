package consumer

import (
	"context"
	"errors"
	"time"

	"rh-management/internal/shared/retry"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// HandleFunc processes one message. A nil error or a Permanent error
// commits the message. Any other error redelivers the same message after a
// backoff.
type HandleFunc func(ctx context.Context, msg kafkago.Message) error

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as one that redelivery cannot fix.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

var defaultBackoff = retry.Backoff{Initial: 500 * time.Millisecond, Max: 30 * time.Second}

type options struct {
	backoff retry.Backoff
}

type Option func(*options)

// WithBackoff sets the wait between redeliveries of a failing message.
func WithBackoff(b retry.Backoff) Option {
	return func(o *options) { o.backoff = b }
}

// Consume fetches and handles messages until ctx is cancelled. Messages are
// handled one at a time: a retryable failure holds the partition on the
// same message so no later commit can move the offset past it.
func Consume(ctx context.Context, reader MessageReader, handle HandleFunc, log *zap.Logger, opts ...Option) {
	o := options{backoff: defaultBackoff}
	for _, opt := range opts {
		opt(&o)
	}
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		fields := []zap.Field{
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		}

		if !handleUntilDone(ctx, msg, handle, o.backoff, log.With(fields...)) {
			log.Info("consumer stopped", fields...)
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", append(fields, zap.Error(err))...)
		}
	}
}

// handleUntilDone reports false when ctx ended before msg was settled.
func handleUntilDone(ctx context.Context, msg kafkago.Message, handle HandleFunc, b retry.Backoff, log *zap.Logger) bool {
	for attempt := 1; ; attempt++ {
		err := handle(ctx, msg)
		if err == nil {
			return true
		}
		if IsPermanent(err) {
			log.Warn("dropping message", zap.Error(err))
			return true
		}

		wait := b.Delay(attempt)
		log.Error("handle message failed, retrying",
			zap.Int("attempt", attempt), zap.Duration("retry_in", wait), zap.Error(err))
		if retry.Sleep(ctx, wait) != nil {
			return false
		}
	}
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
