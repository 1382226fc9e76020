package contextutil_test

import (
	"context"
	"testing"

	"rh-management/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "req-1")
	ctx = contextutil.WithUserID(ctx, "U1")
	ctx = contextutil.WithRole(ctx, "HR")

	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, contextutil.Metadata{RequestID: "req-1", UserID: "U1", Role: "HR"}, md)
	assert.Len(t, md.Fields(), 3)
}

func TestMetadata_FieldsSkipsEmpty(t *testing.T) {
	md := contextutil.ExtractMetadata(contextutil.WithRequestID(context.Background(), "req-1"))

	fields := md.Fields()

	assert.Len(t, fields, 1)
	assert.Equal(t, "request_id", fields[0].Key)
}

func TestGetLogger(t *testing.T) {
	reqLogger := zap.NewExample()
	fallback := zap.NewNop()

	assert.Same(t, reqLogger, contextutil.GetLogger(contextutil.WithLogger(context.Background(), reqLogger), fallback))
	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
