package bootstrap_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"rh-management/internal/bootstrap"
	"rh-management/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := bootstrap.NewStdoutAuditLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	audit.Log(ctx, bootstrap.AuditLog{
		Action:  "LEAVE_CREATED",
		Message: "leave request pending_rh",
		Meta:    map[string]any{"days": 4},
	})

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "audit", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "LEAVE_CREATED", fields["action"])
	assert.Equal(t, "rid-1", fields["request_id"])
}

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (r *recordingAudit) Log(_ context.Context, e bootstrap.AuditLog) {
	r.entries = append(r.entries, e)
}

func TestStartHTTPServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	audit := &recordingAudit{}

	done := make(chan error, 1)
	go func() {
		done <- bootstrap.StartHTTPServer(ctx, http.NotFoundHandler(), bootstrap.ServerConfig{Port: "0"}, audit)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	if assert.Len(t, audit.entries, 1) {
		assert.Equal(t, "SERVER_SHUTDOWN", audit.entries[0].Action)
	}
}
