package kafka

import (
	"context"
	"database/sql"
)

// MaxOutboxAttempts bounds publishing retries. Rows that reach it stay in
// the table as failed and are no longer claimed.
const MaxOutboxAttempts = 10

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type outboxRepository struct {
	db *sql.DB
	q  dbtx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db, q: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	if tx == nil {
		return r
	}
	return &outboxRepository{db: r.db, q: tx}
}

const insertOutboxEvent = `INSERT INTO outbox_events
	(id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)`

func (r *outboxRepository) Create(ctx context.Context, e OutboxEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, insertOutboxEvent,
		e.ID, e.RequestID, e.AggregateType, e.AggregateID, e.EventType, e.Topic, e.Payload, e.Status)
	return err
}

// Claimed rows stay locked until the caller's transaction ends.
const claimOutboxEvents = `SELECT id::text, COALESCE(request_id, ''), aggregate_type, aggregate_id::text,
	event_type, topic, payload, status, retry_count, COALESCE(next_retry_at, created_at)
FROM outbox_events
WHERE status IN ($1, $2)
	AND retry_count < $3
	AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at
LIMIT $4
FOR UPDATE SKIP LOCKED`

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.q.QueryContext(ctx, claimOutboxEvents,
		OutboxStatusPending, OutboxStatusFailed, MaxOutboxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID,
			&e.EventType, &e.Topic, &e.Payload, &e.Status, &e.RetryCount, &e.NextRetryAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const markOutboxSent = `UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, updated_at = NOW()
WHERE id = $1`

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, markOutboxSent, id, OutboxStatusSent)
	return err
}

// Backoff grows by 15s per attempt.
const markOutboxFailed = `UPDATE outbox_events
SET status = $2,
	retry_count = retry_count + 1,
	error_message = LEFT($3, 500),
	next_retry_at = NOW() + (retry_count + 1) * INTERVAL '15 seconds',
	updated_at = NOW()
WHERE id = $1`

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.q.ExecContext(ctx, markOutboxFailed, id, OutboxStatusFailed, reason)
	return err
}
