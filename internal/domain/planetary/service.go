package planetary

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/yanqian/planetary-hours/pkg/errors"
	"github.com/yanqian/planetary-hours/pkg/util"
)

// Service exposes planetary day and hour computations.
type Service interface {
	Overview(ctx context.Context, req Request) (Overview, error)
	DayInfo(ctx context.Context, req Request) (DayInfo, error)
	CurrentHour(ctx context.Context, req Request) (CurrentHourInfo, error)
	AllHours(ctx context.Context, req Request) ([]HourRecord, error)
	SunTimes(ctx context.Context, req Request) (SunTimes, error)
}

// TimezoneResolver maps a coordinate to the zone used for display.
type TimezoneResolver interface {
	Resolve(latitude, longitude float64) (*time.Location, bool)
}

// HourCache stores computed day tables.
type HourCache interface {
	Get(ctx context.Context, key string) (DayTable, bool, error)
	Save(ctx context.Context, key string, table DayTable, ttl time.Duration) error
}

type service struct {
	cfg      Config
	provider SunEventProvider
	zones    TimezoneResolver
	cache    HourCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the planetary domain.
func NewService(cfg Config, provider SunEventProvider, zones TimezoneResolver, cache HourCache, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		provider: provider,
		zones:    zones,
		cache:    cache,
		logger:   logger.With("component", "planetary.service"),
		now:      util.NowUTC,
	}
}

type resolved struct {
	at    time.Time
	loc   *time.Location
	table DayTable
}

func (s *service) Overview(ctx context.Context, req Request) (Overview, error) {
	r, err := s.resolve(ctx, req)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Location:    Coordinate{Latitude: req.Latitude, Longitude: req.Longitude},
		Timezone:    r.loc.String(),
		Day:         NewDayInfo(r.table.Date),
		CurrentHour: s.currentHour(r),
		AllHours:    r.table.Hours,
		Sunrise:     r.table.Sunrise,
		Sunset:      r.table.Sunset,
	}, nil
}

func (s *service) DayInfo(ctx context.Context, req Request) (DayInfo, error) {
	r, err := s.resolve(ctx, req)
	if err != nil {
		return DayInfo{}, err
	}
	return NewDayInfo(r.table.Date), nil
}

func (s *service) CurrentHour(ctx context.Context, req Request) (CurrentHourInfo, error) {
	r, err := s.resolve(ctx, req)
	if err != nil {
		return CurrentHourInfo{}, err
	}
	return s.currentHour(r), nil
}

func (s *service) AllHours(ctx context.Context, req Request) ([]HourRecord, error) {
	r, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return r.table.Hours, nil
}

func (s *service) SunTimes(ctx context.Context, req Request) (SunTimes, error) {
	r, err := s.resolve(ctx, req)
	if err != nil {
		return SunTimes{}, err
	}
	return SunTimes{Sunrise: r.table.Sunrise, Sunset: r.table.Sunset}, nil
}

func (s *service) resolve(ctx context.Context, req Request) (resolved, error) {
	if err := ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return resolved{}, err
	}
	loc, err := s.location(req)
	if err != nil {
		return resolved{}, err
	}
	at := req.At
	if at.IsZero() {
		at = s.now()
	}
	at = at.In(loc)

	table, err := s.anchor(ctx, req.Latitude, req.Longitude, at, loc)
	if err != nil {
		return resolved{}, err
	}
	return resolved{at: at, loc: loc, table: table}, nil
}

// anchor finds the civil day whose sunrise <= at < next sunrise. The local
// calendar date is tried first, then its neighbour on the side at falls.
func (s *service) anchor(ctx context.Context, lat, lng float64, at time.Time, loc *time.Location) (DayTable, error) {
	date := DateOf(at)
	table, err := s.dayTable(ctx, lat, lng, date, loc)
	if err != nil {
		return DayTable{}, err
	}
	switch {
	case at.Before(table.Sunrise):
		return s.dayTable(ctx, lat, lng, date.AddDays(-1), loc)
	case !at.Before(table.NextSunrise):
		return s.dayTable(ctx, lat, lng, date.AddDays(1), loc)
	}
	return table, nil
}

func (s *service) dayTable(ctx context.Context, lat, lng float64, date Date, loc *time.Location) (DayTable, error) {
	key := cacheKey(lat, lng, date, loc)
	if s.cache != nil {
		table, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("hour cache lookup failed", "key", key, "error", err)
		} else if found && len(table.Hours) == 2*hoursPerPeriod {
			return table.In(loc), nil
		}
	}

	table, err := ComputeDay(s.provider, lat, lng, date, loc)
	if err != nil {
		return DayTable{}, err
	}
	s.logger.Debug("planetary day computed", "date", date.String(), "ruler", table.Ruler, "timezone", loc.String())

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if err := s.cache.Save(ctx, key, table, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("hour cache save failed", "key", key, "error", err)
		}
	}
	return table, nil
}

func (s *service) currentHour(r resolved) CurrentHourInfo {
	rec, ok := FindHour(r.table.Hours, r.at)
	if !ok {
		s.logger.Warn("query instant outside computed day, reporting first hour",
			"at", r.at.Format(time.RFC3339), "date", r.table.Date.String())
		rec = CurrentHour(r.table.Hours, r.at)
	}
	return NewCurrentHourInfo(rec, r.at)
}

func (s *service) location(req Request) (*time.Location, error) {
	if name := strings.TrimSpace(req.Timezone); name != "" {
		if strings.EqualFold(name, "local") {
			return nil, apperrors.Wrap(CodeInvalidInput, "timezone must be an explicit IANA name", nil)
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, apperrors.Wrap(CodeInvalidInput, "unknown timezone "+name, err)
		}
		return loc, nil
	}
	if s.cfg.ResolveTimezone && s.zones != nil {
		if loc, ok := s.zones.Resolve(req.Latitude, req.Longitude); ok {
			return loc, nil
		}
	}
	if s.cfg.DefaultTimezone != nil {
		return s.cfg.DefaultTimezone, nil
	}
	return time.UTC, nil
}

func cacheKey(lat, lng float64, date Date, loc *time.Location) string {
	return strings.Join([]string{
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64),
		date.String(),
		loc.String(),
	}, "|")
}
