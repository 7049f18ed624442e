package worker

// deuda_cron.go
// Periodic debt reconciliation. The cached clientes.deuda_total is repaired
// from the ledger on every tick; a failed run rolls back and waits for the
// next tick.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// SincronizarFunc runs a full reconciliation pass.
type SincronizarFunc func(ctx context.Context) error

// DeudaCronConfig holds the dependencies of the resync goroutine.
type DeudaCronConfig struct {
	Interval    time.Duration
	OnStart     bool
	Sincronizar SincronizarFunc
}

// StartDeudaCron launches the resync goroutine. A zero interval disables the
// periodic pass; OnStart still runs once.
func StartDeudaCron(ctx context.Context, cfg DeudaCronConfig) {
	go runDeudaCron(ctx, cfg)
}

func runDeudaCron(ctx context.Context, cfg DeudaCronConfig) {
	if cfg.OnStart {
		tick(ctx, cfg.Sincronizar)
	}
	if cfg.Interval <= 0 {
		log.Info().Msg("deuda_cron: periodic resync disabled")
		return
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	log.Info().Dur("interval", cfg.Interval).Msg("deuda_cron: started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("deuda_cron: shutting down")
			return
		case <-ticker.C:
			tick(ctx, cfg.Sincronizar)
		}
	}
}

func tick(ctx context.Context, fn SincronizarFunc) {
	start := time.Now()
	if err := fn(ctx); err != nil {
		log.Error().Err(err).Msg("deuda_cron: resync failed")
		return
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("deuda_cron: resync done")
}

// DeudaHandler adapts fn to a queue Handler for QueueDeudas.
func DeudaHandler(fn SincronizarFunc) Handler {
	return func(ctx context.Context, _ json.RawMessage) error {
		return fn(ctx)
	}
}
