package practice

import (
	"context"
	"log/slog"
	"time"
)

const defaultSweepInterval = time.Minute

// StartIdleSweeper runs a background goroutine that periodically ends
// sessions with no activity for longer than ttl.
func StartIdleSweeper(ctx context.Context, reg *Registry, ttl, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Idle sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweepIdle(ctx, reg, ttl, time.Now())
			case <-ctx.Done():
				slog.Info("Idle sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// sweepIdle ends sessions whose last activity is older than ttl at now, then
// drops engines left unused. It returns the number of sessions ended.
func sweepIdle(ctx context.Context, reg *Registry, ttl time.Duration, now time.Time) int {
	cutoff := now.Add(-ttl)
	ended := 0
	for _, e := range reg.Engines() {
		ok, err := e.EndIfIdle(ctx, cutoff)
		if err != nil {
			slog.Error("Idle sweeper failed to end session", "user_id", e.UserID(), "error", err)
			continue
		}
		if ok {
			ended++
		}
	}
	evicted := reg.EvictIdle(cutoff)
	if ended > 0 || evicted > 0 {
		slog.Info("Idle sweeper finished", "sessions_ended", ended, "engines_evicted", evicted)
	}
	return ended
}
