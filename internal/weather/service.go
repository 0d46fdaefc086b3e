package weather

import (
	"context"
	"sync"
	"time"

	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// Service serves weather reports for the configured farm coordinate, caching
// the last successful fetch for a short TTL.
type Service struct {
	provider  Provider
	latitude  float64
	longitude float64
	cacheTTL  time.Duration
	logger    *logger.Logger

	mu     sync.Mutex
	cached *Report
}

// NewService creates a new weather service
func NewService(provider Provider, latitude, longitude float64, cacheTTL time.Duration, log *logger.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &Service{
		provider:  provider,
		latitude:  latitude,
		longitude: longitude,
		cacheTTL:  cacheTTL,
		logger:    log,
	}
}

// Get returns the cached report when fresh, otherwise fetches a new one.
// A stale cached report is served when the fetch fails.
func (s *Service) Get(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && time.Since(s.cached.FetchedAt) < s.cacheTTL {
		return s.cached, nil
	}

	report, err := s.provider.Fetch(ctx, s.latitude, s.longitude)
	if err != nil {
		if s.cached != nil {
			s.logger.Warn().Err(err).Msg("weather fetch failed, serving stale cache")
			return s.cached, nil
		}
		return nil, err
	}

	s.cached = report
	return report, nil
}
