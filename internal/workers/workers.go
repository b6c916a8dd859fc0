// Package workers holds background jobs run by cmd/worker.
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"hooklog/internal/engine/analytics"
	"hooklog/internal/engine/requests"
	"hooklog/internal/platform/database"
)

type PruneResult struct {
	Requests int64
	Stats    int64
}

// Pruner deletes captured requests and daily stats older than the retention window.
type Pruner struct {
	requests      *requests.Repository
	stats         *analytics.Repository
	retentionDays int
	now           func() time.Time
}

func NewPruner(db *database.DB, retentionDays int) *Pruner {
	return &Pruner{
		requests:      requests.NewRepository(db),
		stats:         analytics.NewRepository(db),
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (p *Pruner) Enabled() bool {
	return p.retentionDays > 0
}

func (p *Pruner) Prune(ctx context.Context) (PruneResult, error) {
	var result PruneResult
	if !p.Enabled() {
		return result, nil
	}

	cutoff := p.now().UTC().AddDate(0, 0, -p.retentionDays)

	n, err := p.requests.DeleteBefore(ctx, cutoff.UnixMilli())
	if err != nil {
		return result, err
	}
	result.Requests = n

	n, err = p.stats.DeleteBefore(ctx, analytics.DateKey(cutoff))
	if err != nil {
		return result, err
	}
	result.Stats = n

	return result, nil
}

// Run prunes once immediately and then on every tick until ctx is cancelled.
func (p *Pruner) Run(ctx context.Context, interval time.Duration) {
	if !p.Enabled() {
		log.Info().Msg("retention pruning disabled")
		return
	}
	if interval <= 0 {
		log.Error().Dur("interval", interval).Msg("retention pruning not started: prune interval must be positive")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.pruneOnce(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Pruner) pruneOnce(ctx context.Context) {
	result, err := p.Prune(ctx)
	if err != nil {
		log.Error().Err(err).Msg("retention prune failed")
		return
	}
	log.Info().
		Int("retention_days", p.retentionDays).
		Int64("requests_deleted", result.Requests).
		Int64("stats_deleted", result.Stats).
		Msg("retention prune complete")
}
