package service

import (
	"context"
	"time"

	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// AlertScheduler runs alert scans periodically in a background goroutine
type AlertScheduler struct {
	scanner  *AlertScanner
	interval time.Duration
	logger   *logger.Logger
	cancel   context.CancelFunc
}

// NewAlertScheduler creates a new alert scheduler
func NewAlertScheduler(scanner *AlertScanner, interval time.Duration, log *logger.Logger) *AlertScheduler {
	return &AlertScheduler{
		scanner:  scanner,
		interval: interval,
		logger:   log,
	}
}

// Start starts the scheduler. It runs an initial scan immediately, then one
// per interval until Stop or context cancellation.
func (s *AlertScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		s.logger.Info().Dur("interval", s.interval).Msg("alert scheduler started")

		s.runScanCycle(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("alert scheduler stopped")
				return
			case <-ticker.C:
				s.runScanCycle(ctx)
			}
		}
	}()
}

// Stop stops the scheduler goroutine
func (s *AlertScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *AlertScheduler) runScanCycle(ctx context.Context) {
	start := time.Now()
	s.logger.Info().Msg("starting alert scan cycle")

	if err := s.scanner.ScanAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("alert scan cycle finished with errors")
		return
	}

	s.logger.Info().Dur("duration", time.Since(start)).Msg("alert scan cycle completed")
}
