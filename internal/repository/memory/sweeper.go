package memory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sssalamanders/penny-lane/internal/infra/telemetry"
)

const defaultSweepInterval = 45 * time.Second

// Sweeper periodically drops expired entries so subjects who never return
// cannot grow the registry without bound. It runs on its own goroutine and
// never blocks foreground lookups beyond the store's own mutex.
type Sweeper struct {
	store    *RegistrationStore
	interval time.Duration
	log      *zap.Logger
	metrics  *telemetry.Provider
}

// NewSweeper constructs a sweeper for the given store. A non-positive
// interval falls back to 45 seconds.
func NewSweeper(store *RegistrationStore, interval time.Duration, log *zap.Logger, metrics *telemetry.Provider) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{store: store, interval: interval, log: log, metrics: metrics}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := w.store.Sweep(now)
			w.metrics.AddSwept(removed)
			w.metrics.SetLiveEntries(w.store.Len())
			if removed > 0 {
				w.log.Info("pruned expired registrations", zap.Int("removed", removed))
			}
		}
	}
}
