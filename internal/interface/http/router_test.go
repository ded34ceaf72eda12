package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/planetary-hours/internal/domain/location"
	"github.com/yanqian/planetary-hours/internal/domain/planetary"
	"github.com/yanqian/planetary-hours/internal/domain/querylog"
	"github.com/yanqian/planetary-hours/internal/infra/config"
	"github.com/yanqian/planetary-hours/internal/infra/hourcache"
	"github.com/yanqian/planetary-hours/internal/infra/locationrepo"
	"github.com/yanqian/planetary-hours/internal/infra/querylogrepo"
)

// fixedSun rises at 06:00 UTC and sets at 18:00 UTC every day.
type fixedSun struct {
	err error
}

func (f fixedSun) SunEvents(_, _ float64, d planetary.Date) (time.Time, time.Time, error) {
	if f.err != nil {
		return time.Time{}, time.Time{}, f.err
	}
	rise := time.Date(d.Year, d.Month, d.Day, 6, 0, 0, 0, time.UTC)
	return rise, rise.Add(12 * time.Hour), nil
}

type routerFixture struct {
	server *http.Server
	logs   *querylogrepo.MemoryRepository
}

func newRouterUnderTest(t *testing.T, sun planetary.SunEventProvider) routerFixture {
	t.Helper()
	logger := newTestLogger()
	planetarySvc := planetary.NewService(planetary.Config{DefaultTimezone: time.UTC, CacheTTL: time.Hour}, sun, nil, hourcache.NewMemoryCache(0), logger)
	locationSvc := location.NewService(location.Config{FallbackLatitude: 40.7128, FallbackLongitude: -74.0060}, locationrepo.NewMemoryRepository(), logger)
	logs := querylogrepo.NewMemoryRepository(0)
	queryLogSvc := querylog.NewService(logs, logger)

	handler := NewHandler(HandlerConfig{LogQueries: true}, planetarySvc, locationSvc, queryLogSvc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return routerFixture{server: NewRouter(cfg, handler), logs: logs}
}

func TestRouter_OverviewSuccess(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{})

	rec := performRequest(f.server, http.MethodGet, "/api/v1/planetary-hours?lat=10&lng=20&at=2024-03-10T12:30:00Z&tz=UTC", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Timezone string `json:"timezone"`
		Day      struct {
			Planet string `json:"planet"`
		} `json:"day"`
		CurrentHour struct {
			HourNumber int     `json:"hour_number"`
			Period     string  `json:"period"`
			Planet     string  `json:"planet"`
			Progress   float64 `json:"progress"`
		} `json:"current_hour"`
		AllHours []json.RawMessage `json:"all_hours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "UTC", got.Timezone)
	require.Equal(t, "Sun", got.Day.Planet)
	require.Equal(t, 7, got.CurrentHour.HourNumber)
	require.Equal(t, "Day", got.CurrentHour.Period)
	require.Equal(t, "Mars", got.CurrentHour.Planet)
	require.InDelta(t, 50, got.CurrentHour.Progress, 0.01)
	require.Len(t, got.AllHours, 24)

	logged, err := f.logs.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	require.Equal(t, "Mars", logged[0].HourPlanet)
	require.InDelta(t, 10, logged[0].Latitude, 1e-9)
}

func TestRouter_OverviewUsesFallbackLocation(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{})

	rec := performRequest(f.server, http.MethodGet, "/api/v1/planetary-hours?at=2024-03-10T12:30:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Location planetary.Coordinate `json:"location"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.InDelta(t, 40.7128, got.Location.Latitude, 1e-9)
	require.InDelta(t, -74.0060, got.Location.Longitude, 1e-9)
}

func TestRouter_BadQueryParameters(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{})

	cases := map[string]struct {
		path string
		code string
	}{
		"unparseable lat":  {"/api/v1/planetary-hours?lat=abc&lng=1", "invalid_request"},
		"bad instant":      {"/api/v1/planetary-hours/current?lat=1&lng=1&at=yesterday", "invalid_request"},
		"lat out of range": {"/api/v1/planetary-hours/day?lat=91&lng=1", "invalid_input"},
		"local timezone":   {"/api/v1/planetary-hours/hours?lat=1&lng=1&tz=Local", "invalid_input"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := performRequest(f.server, http.MethodGet, tc.path, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			errBody := decodeErrorBody(t, rec.Body.Bytes())
			require.Equal(t, tc.code, errBody["error"]["code"])
			require.NotEmpty(t, errBody["error"]["message"])
		})
	}
}

func TestRouter_AstronomicalFailure(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{err: planetary.ErrAstronomicalComputation})

	rec := performRequest(f.server, http.MethodGet, "/api/v1/planetary-hours/current?lat=78&lng=15&at=2024-06-21T12:00:00Z", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, planetary.CodeAstronomical, errBody["error"]["code"])
}

func TestRouter_DayAndHours(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{})

	rec := performRequest(f.server, http.MethodGet, "/api/v1/planetary-hours/day?lat=1&lng=1&at=2024-03-11T03:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var day planetary.DayInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	require.Equal(t, planetary.Sun, day.Planet)

	rec = performRequest(f.server, http.MethodGet, "/api/v1/planetary-hours/hours?lat=1&lng=1&at=2024-03-10T07:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hours struct {
		Hours []planetary.HourRecord `json:"hours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hours))
	require.Len(t, hours.Hours, 24)
	require.Equal(t, planetary.Sun, hours.Hours[0].Planet)
	require.Equal(t, "06:00 - 07:00", hours.Hours[0].TimeRange)
}

// countingPlanetary records every call that reaches the planetary service.
type countingPlanetary struct {
	planetary.Service
	calls atomic.Int32
}

func (c *countingPlanetary) Overview(ctx context.Context, req planetary.Request) (planetary.Overview, error) {
	c.calls.Add(1)
	return c.Service.Overview(ctx, req)
}

func (c *countingPlanetary) AllHours(ctx context.Context, req planetary.Request) ([]planetary.HourRecord, error) {
	c.calls.Add(1)
	return c.Service.AllHours(ctx, req)
}

func (c *countingPlanetary) SunTimes(ctx context.Context, req planetary.Request) (planetary.SunTimes, error) {
	c.calls.Add(1)
	return c.Service.SunTimes(ctx, req)
}

func TestRouter_HoursResolvesOnce(t *testing.T) {
	logger := newTestLogger()
	svc := &countingPlanetary{Service: planetary.NewService(planetary.Config{DefaultTimezone: time.UTC}, fixedSun{}, nil, nil, logger)}
	locationSvc := location.NewService(location.Config{FallbackLatitude: 40.7128, FallbackLongitude: -74.0060}, locationrepo.NewMemoryRepository(), logger)
	handler := NewHandler(HandlerConfig{}, svc, locationSvc, querylog.NewService(querylogrepo.NewMemoryRepository(0), logger), logger)
	server := NewRouter(&config.Config{HTTP: config.HTTPConfig{Address: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second}}, handler)

	// Without "at" the instant comes from the wall clock, so the table and
	// the sun times must come from a single resolution.
	rec := performRequest(server, http.MethodGet, "/api/v1/planetary-hours/hours?lat=1&lng=1&tz=UTC", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int32(1), svc.calls.Load())

	var got struct {
		Hours   []planetary.HourRecord `json:"hours"`
		Sunrise time.Time              `json:"sunrise"`
		Sunset  time.Time              `json:"sunset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Hours, 24)
	require.True(t, got.Sunrise.Equal(got.Hours[0].Start))
	require.True(t, got.Sunset.Equal(got.Hours[11].End))
}

func TestRouter_LocationLifecycle(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{})

	rec := performRequest(f.server, http.MethodPost, "/api/v1/locations", `{"name":"Home","latitude":51.5,"longitude":-0.12,"is_default":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created location.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, created.IsDefault)

	rec = performRequest(f.server, http.MethodGet, "/api/v1/locations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Locations []location.Location `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Locations, 1)

	rec = performRequest(f.server, http.MethodGet, "/api/v1/planetary-hours?at=2024-03-10T12:30:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var overview planetary.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	require.InDelta(t, 51.5, overview.Location.Latitude, 1e-9)

	path := "/api/v1/locations/" + strconv.FormatInt(created.ID, 10)
	rec = performRequest(f.server, http.MethodGet, path+"/planetary-hours?at=2024-03-10T12:30:00Z&tz=UTC", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(f.server, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(f.server, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "not_found", errBody["error"]["code"])
}

func TestRouter_AddLocationValidation(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{})

	rec := performRequest(f.server, http.MethodPost, "/api/v1/locations", `{"name":"","latitude":1,"longitude":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(f.server, http.MethodPost, "/api/v1/locations", `{"name":123}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(f.server, http.MethodGet, "/api/v1/locations/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_QueryLogs(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{})

	rec := performRequest(f.server, http.MethodPost, "/api/v1/query-logs?lat=1&lng=2&at=2024-03-10T20:00:00Z&tz=UTC", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(f.server, http.MethodGet, "/api/v1/query-logs?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Logs []querylog.Entry `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Logs, 1)
	require.Equal(t, "Night", got.Logs[0].Period)
	require.Equal(t, "Sun", got.Logs[0].DayPlanet)

	rec = performRequest(f.server, http.MethodGet, "/api/v1/query-logs?limit=x", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_HealthAndPreflight(t *testing.T) {
	f := newRouterUnderTest(t, fixedSun{})

	rec := performRequest(f.server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(f.server, http.MethodOptions, "/api/v1/locations", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWithRetry_ReplaysFailedGet(t *testing.T) {
	var calls atomic.Int32
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	handler := withRetry(inner, config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond}, newTestLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/planetary-hours", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.EqualValues(t, 2, calls.Load())

	calls.Store(0)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewBufferString("{}")))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.EqualValues(t, 1, calls.Load())
}

func TestDomainErrorMapping(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, domainError(errors.New("boom"), "x").Status)
	require.Equal(t, "x", domainError(errors.New("boom"), "x").Code)
}

func performRequest(server *http.Server, method, path, body string) *httptest.ResponseRecorder {
	return serve(server, newRequest(method, path, body))
}

func newRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(server *http.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
