package planetary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubProvider produces sunrise/sunset at fixed local clock times.
type stubProvider struct {
	mu    sync.Mutex
	fn    func(date Date) (time.Time, time.Time, error)
	calls int
}

func (s *stubProvider) SunEvents(_, _ float64, date Date) (time.Time, time.Time, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fn(date)
}

func clockProvider(t *testing.T, loc *time.Location, riseHour, riseMin, setHour, setMin int) *stubProvider {
	t.Helper()
	return &stubProvider{fn: func(d Date) (time.Time, time.Time, error) {
		rise := time.Date(d.Year, d.Month, d.Day, riseHour, riseMin, 0, 0, loc).UTC()
		set := time.Date(d.Year, d.Month, d.Day, setHour, setMin, 0, 0, loc).UTC()
		return rise, set, nil
	}}
}

func failingProvider(err error) *stubProvider {
	return &stubProvider{fn: func(Date) (time.Time, time.Time, error) {
		return time.Time{}, time.Time{}, err
	}}
}

type stubZones struct {
	loc *time.Location
}

func (s stubZones) Resolve(_, _ float64) (*time.Location, bool) {
	if s.loc == nil {
		return nil, false
	}
	return s.loc, true
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]DayTable
	err     error
	saves   int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]DayTable)}
}

func (c *mapCache) Get(_ context.Context, key string) (DayTable, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return DayTable{}, false, c.err
	}
	table, ok := c.entries[key]
	return table, ok, nil
}

func (c *mapCache) Save(_ context.Context, key string, table DayTable, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.saves++
	c.entries[key] = table
	return nil
}

var errCacheDown = errors.New("cache down")

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}
