package contextutil

import (
	"context"

	"go.uber.org/zap"
)

type key int

const (
	requestIDKey key = iota
	userIDKey
	roleKey
	loggerKey
)

func lookup[T any](ctx context.Context, k key) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(k).(T)
	return v, ok
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	rid, _ := lookup[string](ctx, requestIDKey)
	return rid
}

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

func GetUserID(ctx context.Context) string {
	uid, _ := lookup[string](ctx, userIDKey)
	return uid
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

func GetRole(ctx context.Context) string {
	role, _ := lookup[string](ctx, roleKey)
	return role
}

// WithLogger stores the request logger, usually already carrying
// request_id and user_id fields.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger never returns nil: request logger, then fallback, then Nop.
func GetLogger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := lookup[*zap.Logger](ctx, loggerKey); ok && l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}

// Metadata is the caller identity attached to a request.
type Metadata struct {
	RequestID string
	UserID    string
	Role      string
}

func ExtractMetadata(ctx context.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(ctx),
		UserID:    GetUserID(ctx),
		Role:      GetRole(ctx),
	}
}

// Fields renders the metadata as zap fields, skipping empty values.
func (m Metadata) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if m.RequestID != "" {
		fields = append(fields, zap.String("request_id", m.RequestID))
	}
	if m.UserID != "" {
		fields = append(fields, zap.String("user_id", m.UserID))
	}
	if m.Role != "" {
		fields = append(fields, zap.String("role", m.Role))
	}
	return fields
}
