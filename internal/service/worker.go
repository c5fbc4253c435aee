package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultPollInterval = 2 * time.Second

// Worker drives the pipeline's asynchronous half: it invokes
// ProcessNextItem at a fixed cadence from a single goroutine, so two
// invocations never overlap for the same queue.
type Worker struct {
	pipeline *Pipeline
	interval time.Duration
	logger   *zap.Logger
}

// NewWorker creates a polling Worker. A non-positive interval falls back to
// the two-second default.
func NewWorker(pipeline *Pipeline, interval time.Duration, logger *zap.Logger) *Worker {
	if pipeline == nil {
		panic("pipeline must not be nil")
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		pipeline: pipeline,
		interval: interval,
		logger:   logger.Named("worker"),
	}
}

// Run blocks until ctx is canceled. Processing errors are already logged by
// the pipeline; the loop never stops for them. An item in flight when ctx
// is canceled runs to completion: storage calls receive a context detached
// from the shutdown signal, and the loop only observes cancellation between
// ticks.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("feedback worker started", zap.Duration("interval", w.interval))

	itemCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("feedback worker stopped")
			return
		case <-ticker.C:
			if _, err := w.pipeline.ProcessNextItem(itemCtx); err != nil {
				continue
			}
		}
	}
}
