package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/football_store/pkg/logging"
)

type expirerFunc func(ctx context.Context) (int, error)

func (f expirerFunc) ExpireAbandonedCarts(ctx context.Context) (int, error) { return f(ctx) }

func TestNextRun(t *testing.T) {
	now := time.Date(2024, 6, 15, 13, 45, 10, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), nextRun(now, 24*time.Hour))
	assert.Equal(t, time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC), nextRun(now, time.Hour))

	midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, midnight.Add(24*time.Hour), nextRun(midnight, 24*time.Hour))

	assert.Equal(t, nextRun(now, DefaultInterval), nextRun(now, 0))
}

func TestRunOnceLogsAndReturnsErrors(t *testing.T) {
	var buf bytes.Buffer
	c := NewCartCleanup(expirerFunc(func(context.Context) (int, error) {
		return 0, errors.New("db gone")
	}), time.Hour, logging.NewWithWriter(&buf, "info"))

	_, err := c.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, buf.String(), "cart_cleanup_error")
}

func TestRunOnceRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	c := NewCartCleanup(expirerFunc(func(context.Context) (int, error) {
		panic("boom")
	}), time.Hour, logging.NewWithWriter(&buf, "info"))

	var err error
	assert.NotPanics(t, func() { _, err = c.RunOnce(context.Background()) })
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "cart_cleanup_panic")
}

func TestRunSweepsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	c := NewCartCleanup(expirerFunc(func(context.Context) (int, error) {
		calls.Add(1)
		return 2, nil
	}), 5*time.Millisecond, logging.NewWithWriter(&bytes.Buffer{}, "error"))

	ctx, cancel := context.WithCancel(context.Background())
	done := c.Start(ctx)

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
