package weather_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/weather"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// fakeProvider returns queued reports and errors, counting calls
type fakeProvider struct {
	reports []*weather.Report
	errs    []error
	calls   int
}

func (f *fakeProvider) Fetch(_ context.Context, _, _ float64) (*weather.Report, error) {
	i := f.calls
	f.calls++

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.reports) {
		return f.reports[i], nil
	}
	return f.reports[len(f.reports)-1], nil
}

func freshReport(temp float64) *weather.Report {
	return &weather.Report{
		Current:   weather.Conditions{TemperatureC: temp},
		FetchedAt: time.Now(),
	}
}

func staleReport(temp float64) *weather.Report {
	return &weather.Report{
		Current:   weather.Conditions{TemperatureC: temp},
		FetchedAt: time.Now().Add(-time.Hour),
	}
}

func TestService_Get_CachesReport(t *testing.T) {
	provider := &fakeProvider{reports: []*weather.Report{freshReport(20)}}
	svc := weather.NewService(provider, 52.52, 13.405, 15*time.Minute, logger.New("test", "test"))

	first, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20.0, first.Current.TemperatureC)

	second, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, provider.calls, "second call should hit the cache")
}

func TestService_Get_RefetchesWhenStale(t *testing.T) {
	provider := &fakeProvider{reports: []*weather.Report{staleReport(20), freshReport(25)}}
	svc := weather.NewService(provider, 52.52, 13.405, 15*time.Minute, logger.New("test", "test"))

	first, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20.0, first.Current.TemperatureC)

	// First report is already past the TTL, so the next call fetches again
	second, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25.0, second.Current.TemperatureC)
	assert.Equal(t, 2, provider.calls)
}

func TestService_Get_ServesStaleOnFailure(t *testing.T) {
	provider := &fakeProvider{
		reports: []*weather.Report{staleReport(20)},
		errs:    []error{nil, errors.New("upstream down")},
	}
	svc := weather.NewService(provider, 52.52, 13.405, 15*time.Minute, logger.New("test", "test"))

	first, err := svc.Get(context.Background())
	require.NoError(t, err)

	// Fetch fails but the stale report is still served
	second, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestService_Get_ErrorWithoutCache(t *testing.T) {
	provider := &fakeProvider{errs: []error{errors.New("upstream down")}}
	svc := weather.NewService(provider, 52.52, 13.405, 15*time.Minute, logger.New("test", "test"))

	_, err := svc.Get(context.Background())
	require.Error(t, err)
}
