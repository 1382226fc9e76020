package retry_test

import (
	"context"
	"testing"
	"time"

	"rh-management/internal/shared/retry"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Delay(t *testing.T) {
	b := retry.Backoff{Initial: time.Second, Max: 5 * time.Second}

	assert.Equal(t, time.Second, b.Delay(1))
	assert.Equal(t, 2*time.Second, b.Delay(2))
	assert.Equal(t, 4*time.Second, b.Delay(3))
	assert.Equal(t, 5*time.Second, b.Delay(4))
	assert.Equal(t, 5*time.Second, b.Delay(40))
	assert.Zero(t, retry.Backoff{}.Delay(3))
}

func TestSleep(t *testing.T) {
	assert.NoError(t, retry.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, retry.Sleep(ctx, time.Hour), context.Canceled)
}
