package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/quizbot/core/logger"
)

// IdleEvicter removes entries idle since before the cutoff and reports
// the evicted user ids. Both the session store and the authoring
// conversation store implement it.
type IdleEvicter interface {
	EvictIdle(cutoff time.Time) []int64
}

// ReaperOptions configure the periodic idle-session sweep.
type ReaperOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	Now      func() time.Time
}

// Reaper evicts idle entries from its target stores on a fixed period.
// Eviction is silent to the user: it frees memory and closes the attempt
// server-side, no outbound message is sent.
type Reaper struct {
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	targets  []IdleEvicter
}

// NewReaper constructs a reaper sweeping the given stores.
func NewReaper(opts ReaperOptions, targets ...IdleEvicter) *Reaper {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Reaper{
		interval: opts.Interval,
		timeout:  opts.Timeout,
		now:      opts.Now,
		targets:  targets,
	}
}

// Run sweeps on every tick until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info(ctx, "service.sessions", "reaper.start",
		slog.Duration("interval", r.interval),
		slog.Duration("timeout", r.timeout),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "service.sessions", "reaper.stop")
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep runs a single eviction pass and returns the number of evicted
// entries across all targets.
func (r *Reaper) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.timeout)
	total := 0
	for _, t := range r.targets {
		evicted := t.EvictIdle(cutoff)
		total += len(evicted)
		for _, id := range evicted {
			logger.Debug(ctx, "service.sessions", "reaper.evict",
				slog.Int64("user_id", id),
			)
		}
	}
	if total > 0 {
		logger.Info(ctx, "service.sessions", "reaper.sweep",
			slog.String("status", "ok"),
			slog.Int("evicted", total),
		)
	}
	return total
}
