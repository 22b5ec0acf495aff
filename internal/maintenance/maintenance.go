// Package maintenance runs periodic background tasks as Go tickers. The API
// server is already long-running (it holds the LISTEN connection), so the
// housekeeping that would otherwise need pg_cron lives here.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/power2u/traineasy-web/internal/db"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // Old notification logs + stale device tokens
	CatchUpInterval time.Duration // Sweep for broadcasts whose NOTIFY was missed
	LogRetention    time.Duration
	TokenRetention  time.Duration
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 6 * time.Hour,
		CatchUpInterval: 15 * time.Minute,
		LogRetention:    90 * 24 * time.Hour,
		TokenRetention:  270 * 24 * time.Hour,
	}
}

// Sweeper sends broadcasts still pending. Satisfied by listener.Processor.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`. sweeper may be nil.
func Start(ctx context.Context, q db.Querier, sweeper Sweeper, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"cleanup", cfg.CleanupInterval,
		"catchup", cfg.CatchUpInterval,
		"log_retention", cfg.LogRetention,
		"token_retention", cfg.TokenRetention)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Cleanup: purge old notification logs and tokens nobody refreshed
	if cfg.CleanupInterval > 0 {
		t := time.NewTicker(cfg.CleanupInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() {
			if _, err := Purge(ctx, q, cfg, time.Now(), logger); err != nil {
				logger.Warn("Cleanup failed", "error", err)
			}
		})
	}

	// Catch-up: send broadcasts queued while the listener was down
	if cfg.CatchUpInterval > 0 && sweeper != nil {
		t := time.NewTicker(cfg.CatchUpInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { catchUpSweep(ctx, sweeper, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func catchUpSweep(ctx context.Context, sweeper Sweeper, logger *slog.Logger) {
	n, err := sweeper.Sweep(ctx)
	if err != nil {
		logger.Warn("Catch-up sweep: failed", "error", err)
	} else if n > 0 {
		logger.Info("Catch-up sweep: sent missed broadcasts", "count", n)
	}
}
