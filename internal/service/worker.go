package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Worker is a periodic background job: it runs one tick immediately on
// start, then one per interval. Ticks never overlap because the worker owns
// a single loop.
type Worker struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)
	stopCh   chan struct{}
}

func NewWorker(name string, interval time.Duration, tick func(ctx context.Context)) *Worker {
	return &Worker{
		name:     name,
		interval: interval,
		tick:     tick,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic loop. It blocks until the context is cancelled
// or Stop is called, so run it as a goroutine.
func (w *Worker) Start(ctx context.Context) {
	log.Info().Str("worker", w.name).Dur("interval", w.interval).Msg("worker: starting")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Str("worker", w.name).Msg("worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Info().Str("worker", w.name).Msg("worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) run(ctx context.Context) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("worker", w.name).Interface("panic", r).Msg("worker: tick panicked")
		}
	}()

	w.tick(ctx)
	log.Info().Str("worker", w.name).
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("worker: tick complete")
}
