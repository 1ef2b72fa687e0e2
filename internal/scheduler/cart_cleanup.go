// Package scheduler runs the periodic abandoned-cart sweep.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const DefaultInterval = 24 * time.Hour

type CartExpirer interface {
	ExpireAbandonedCarts(ctx context.Context) (int, error)
}

type CartCleanup struct {
	Expirer  CartExpirer
	Interval time.Duration
	Log      *slog.Logger
	Now      func() time.Time
}

func NewCartCleanup(expirer CartExpirer, interval time.Duration, log *slog.Logger) *CartCleanup {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &CartCleanup{
		Expirer:  expirer,
		Interval: interval,
		Log:      log.With("component", "cart_cleanup"),
		Now:      time.Now,
	}
}

// Start runs the loop in a goroutine; the returned channel closes once it has stopped.
func (c *CartCleanup) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()
	return done
}

// Run sleeps until the next interval boundary in UTC, sweeps, and repeats
// until ctx is cancelled. A daily interval therefore fires at midnight UTC.
func (c *CartCleanup) Run(ctx context.Context) {
	c.Log.Info("cart_cleanup_started", "interval", c.Interval.String())
	for {
		now := c.Now()
		next := nextRun(now, c.Interval)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			c.Log.Info("cart_cleanup_stopped")
			return
		case <-timer.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep. Failures and panics are logged, never propagated.
func (c *CartCleanup) RunOnce(ctx context.Context) (n int, err error) {
	start := c.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cart cleanup panic: %v", r)
			c.Log.Error("cart_cleanup_panic", "panic", r)
		}
	}()

	n, err = c.Expirer.ExpireAbandonedCarts(ctx)
	if err != nil {
		c.Log.Error("cart_cleanup_error", "cleared", n, "error", err)
		return n, err
	}
	c.Log.Info("cart_cleanup_done", "cleared", n, "duration_ms", c.Now().Sub(start).Milliseconds())
	return n, nil
}

func nextRun(now time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return now.UTC().Truncate(interval).Add(interval)
}
