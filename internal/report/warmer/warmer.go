// Package warmer pre-builds the default summary and its export on a
// schedule, so the first request after an upload window is served from
// the latest-period cache instead of paying the rollup cost.
package warmer

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shiftpay/shiftpay-backend/internal/report/service"
	"github.com/shiftpay/shiftpay-backend/pkg/errors"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
)

// Warmer schedules the latest-period cache warm-up.
type Warmer struct {
	cron      *cron.Cron
	summaries *service.SummaryService
	exports   *service.ExportService
	logger    *logger.Logger
}

// New creates a warmer whose job runs on the given cron spec. The spec is
// a standard 5-field expression evaluated in server local time.
func New(spec string, summaries *service.SummaryService, exports *service.ExportService, log *logger.Logger) (*Warmer, error) {
	w := &Warmer{
		cron:      cron.New(cron.WithLocation(time.Local)),
		summaries: summaries,
		exports:   exports,
		logger:    log,
	}

	if _, err := w.cron.AddFunc(spec, w.run); err != nil {
		return nil, err
	}

	return w, nil
}

// Start launches the schedule.
func (w *Warmer) Start() {
	w.cron.Start()
	w.logger.Info().Msg("cache warmer started")
}

// Stop halts the schedule and waits for a running job to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
	w.logger.Info().Msg("cache warmer stopped")
}

func (w *Warmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := w.Warm(ctx); err != nil {
		w.logger.Error().Err(err).Msg("cache warm-up failed")
	}
}

// Warm rebuilds the default summary and export, filling both
// latest-period cache entries. An empty database is not a failure.
func (w *Warmer) Warm(ctx context.Context) error {
	start := time.Now()

	if _, err := w.summaries.Summary(ctx, nil); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			w.logger.Info().Msg("no allowance data yet, nothing to warm")
			return nil
		}
		return err
	}

	if _, err := w.exports.Export(ctx, nil); err != nil {
		return err
	}

	w.logger.Info().Dur("took", time.Since(start)).Msg("latest-period cache warmed")
	return nil
}
