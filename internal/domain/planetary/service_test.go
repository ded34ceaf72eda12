package planetary

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/planetary-hours/pkg/errors"
	"github.com/yanqian/planetary-hours/pkg/util"
)

func newServiceUnderTest(t *testing.T, cfg Config, provider SunEventProvider, zones TimezoneResolver, cache HourCache, now time.Time) *service {
	t.Helper()
	svc := NewService(cfg, provider, zones, cache, newTestLogger()).(*service)
	svc.now = util.FixedClock(now)
	return svc
}

func TestServiceOverviewDuringDay(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	provider := clockProvider(t, ny, 6, 0, 18, 0)
	now := time.Date(2024, time.March, 17, 10, 30, 0, 0, ny)
	svc := newServiceUnderTest(t, Config{}, provider, nil, nil, now)

	got, err := svc.Overview(context.Background(), Request{Latitude: nyLat, Longitude: nyLng, Timezone: "America/New_York"})
	require.NoError(t, err)

	require.Equal(t, "America/New_York", got.Timezone)
	require.Equal(t, Coordinate{Latitude: nyLat, Longitude: nyLng}, got.Location)
	require.Equal(t, "Sunday, March 17, 2024", got.Day.Date)
	require.Equal(t, 0, got.Day.DayOfWeek)
	require.Equal(t, Sun, got.Day.Planet)
	require.Len(t, got.AllHours, 24)

	require.Equal(t, 5, got.CurrentHour.HourNumber)
	require.Equal(t, PeriodDay, got.CurrentHour.Period)
	require.Equal(t, Saturn, got.CurrentHour.Planet)
	require.Equal(t, "10:30:00", got.CurrentHour.CurrentTime)
	require.InDelta(t, 50.0, got.CurrentHour.Progress, 1e-9)
	require.True(t, got.Sunrise.Equal(time.Date(2024, time.March, 17, 6, 0, 0, 0, ny)))
	require.Equal(t, "06:00", got.Sunrise.Format("15:04"))
}

func TestServiceAnchorsPreviousDayBeforeSunrise(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	provider := clockProvider(t, ny, 6, 0, 18, 0)
	svc := newServiceUnderTest(t, Config{DefaultTimezone: ny}, provider, nil, nil, time.Time{})

	at := time.Date(2024, time.March, 18, 3, 30, 0, 0, ny)
	got, err := svc.Overview(context.Background(), Request{Latitude: nyLat, Longitude: nyLng, At: at})
	require.NoError(t, err)

	require.Equal(t, "Sunday, March 17, 2024", got.Day.Date)
	require.Equal(t, Sun, got.Day.Planet)
	require.Equal(t, PeriodNight, got.CurrentHour.Period)
	require.Equal(t, 10, got.CurrentHour.HourNumber)
	require.Equal(t, Sun, got.CurrentHour.Planet)
	require.InDelta(t, 50.0, got.CurrentHour.Progress, 1e-9)
}

func TestServiceAnchorsNextDayAfterFollowingSunrise(t *testing.T) {
	// Sunrise for date d falls at 22:00 local on d-1.
	provider := &stubProvider{fn: func(d Date) (time.Time, time.Time, error) {
		midnight := d.Midnight(time.UTC)
		return midnight.Add(-2 * time.Hour), midnight.Add(10 * time.Hour), nil
	}}
	svc := newServiceUnderTest(t, Config{DefaultTimezone: time.UTC}, provider, nil, nil, time.Time{})

	at := time.Date(2024, time.March, 17, 22, 30, 0, 0, time.UTC)
	got, err := svc.Overview(context.Background(), Request{Latitude: 1, Longitude: 2, At: at})
	require.NoError(t, err)
	require.Equal(t, "Monday, March 18, 2024", got.Day.Date)
	require.Equal(t, PeriodDay, got.CurrentHour.Period)
	require.Equal(t, 1, got.CurrentHour.HourNumber)
	require.Equal(t, Moon, got.CurrentHour.Planet)
}

func TestServiceTimezoneResolution(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")
	berlin := mustLoad(t, "Europe/Berlin")
	provider := clockProvider(t, time.UTC, 6, 0, 18, 0)
	now := time.Date(2024, time.March, 17, 12, 0, 0, 0, time.UTC)

	resolving := newServiceUnderTest(t, Config{DefaultTimezone: berlin, ResolveTimezone: true}, provider, stubZones{loc: tokyo}, nil, now)
	got, err := resolving.SunTimes(context.Background(), Request{Latitude: 35.68, Longitude: 139.69})
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", got.Sunrise.Location().String())

	unresolved := newServiceUnderTest(t, Config{DefaultTimezone: berlin, ResolveTimezone: true}, provider, stubZones{}, nil, now)
	got, err = unresolved.SunTimes(context.Background(), Request{Latitude: 0, Longitude: -30})
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", got.Sunrise.Location().String())

	disabled := newServiceUnderTest(t, Config{DefaultTimezone: berlin}, provider, stubZones{loc: tokyo}, nil, now)
	got, err = disabled.SunTimes(context.Background(), Request{Latitude: 35.68, Longitude: 139.69})
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", got.Sunrise.Location().String())

	explicit, err := disabled.SunTimes(context.Background(), Request{Latitude: 35.68, Longitude: 139.69, Timezone: "Asia/Tokyo"})
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", explicit.Sunrise.Location().String())
}

func TestServiceRejectsBadInput(t *testing.T) {
	provider := clockProvider(t, time.UTC, 6, 0, 18, 0)
	svc := newServiceUnderTest(t, Config{}, provider, nil, nil, time.Now())

	_, err := svc.DayInfo(context.Background(), Request{Latitude: 100, Longitude: 0})
	require.ErrorIs(t, err, ErrInvalidCoordinate)

	_, err = svc.CurrentHour(context.Background(), Request{Latitude: 10, Longitude: 10, Timezone: "Mars/Olympus_Mons"})
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))

	_, err = svc.AllHours(context.Background(), Request{Latitude: 10, Longitude: 10, Timezone: "Local"})
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))

	require.Zero(t, provider.calls)
}

func TestServiceUsesCache(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	provider := clockProvider(t, ny, 6, 0, 18, 0)
	cache := newMapCache()
	now := time.Date(2024, time.March, 17, 12, 0, 0, 0, ny)
	svc := newServiceUnderTest(t, Config{DefaultTimezone: ny, CacheTTL: time.Hour}, provider, nil, cache, now)

	first, err := svc.AllHours(context.Background(), Request{Latitude: nyLat, Longitude: nyLng})
	require.NoError(t, err)
	require.Equal(t, 2, provider.calls)
	require.Equal(t, 1, cache.saves)

	second, err := svc.AllHours(context.Background(), Request{Latitude: nyLat, Longitude: nyLng})
	require.NoError(t, err)
	require.Equal(t, 2, provider.calls)
	require.Equal(t, first, second)
}

func TestServiceIgnoresCacheFailures(t *testing.T) {
	provider := clockProvider(t, time.UTC, 6, 0, 18, 0)
	cache := newMapCache()
	cache.err = errCacheDown
	now := time.Date(2024, time.March, 17, 12, 0, 0, 0, time.UTC)
	svc := newServiceUnderTest(t, Config{CacheTTL: time.Hour}, provider, nil, cache, now)

	info, err := svc.DayInfo(context.Background(), Request{Latitude: 1, Longitude: 1})
	require.NoError(t, err)
	require.Equal(t, Sun, info.Planet)
}

func TestServicePropagatesAstronomicalErrors(t *testing.T) {
	provider := failingProvider(ErrAstronomicalComputation)
	svc := newServiceUnderTest(t, Config{}, provider, nil, nil, time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC))

	_, err := svc.Overview(context.Background(), Request{Latitude: 80, Longitude: 10})
	require.ErrorIs(t, err, ErrAstronomicalComputation)
	require.True(t, apperrors.IsCode(err, CodeAstronomical))
}
