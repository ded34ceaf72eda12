package querylog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/planetary-hours/internal/domain/planetary"
	apperrors "github.com/yanqian/planetary-hours/pkg/errors"
	"github.com/yanqian/planetary-hours/pkg/util"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Service records and lists planetary-hour lookups.
type Service interface {
	Record(ctx context.Context, req RecordRequest) (Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the query log domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "querylog.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Record(ctx context.Context, req RecordRequest) (Entry, error) {
	req, err := normalize(req)
	if err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ID:         uuid.New(),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		DayPlanet:  req.DayPlanet,
		HourPlanet: req.HourPlanet,
		Period:     req.Period,
		HourNumber: req.HourNumber,
		Timestamp:  s.now(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeStorage, "failed to record query", err)
	}
	s.logger.Debug("query recorded", "id", entry.ID, "hour_planet", entry.HourPlanet, "hour", entry.HourNumber)
	return entry, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to load query logs", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// normalize validates req and canonicalizes planet names.
func normalize(req RecordRequest) (RecordRequest, error) {
	if err := planetary.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return req, err
	}
	day, ok := planetary.ParsePlanet(req.DayPlanet)
	if !ok {
		return req, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown day planet %q", req.DayPlanet), nil)
	}
	hour, ok := planetary.ParsePlanet(req.HourPlanet)
	if !ok {
		return req, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown hour planet %q", req.HourPlanet), nil)
	}
	if req.Period != string(planetary.PeriodDay) && req.Period != string(planetary.PeriodNight) {
		return req, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("period must be %q or %q", planetary.PeriodDay, planetary.PeriodNight), nil)
	}
	if req.HourNumber < 1 || req.HourNumber > 24 {
		return req, apperrors.Wrap(apperrors.CodeInvalidInput, "hour_number must be within [1, 24]", nil)
	}
	req.DayPlanet = string(day)
	req.HourPlanet = string(hour)
	return req, nil
}

// EntryFromHour builds a RecordRequest from a located hour.
func EntryFromHour(lat, lng float64, day planetary.DayInfo, hour planetary.HourRecord) RecordRequest {
	return RecordRequest{
		Latitude:   lat,
		Longitude:  lng,
		DayPlanet:  string(day.Planet),
		HourPlanet: string(hour.Planet),
		Period:     string(hour.Period),
		HourNumber: hour.HourNumber,
	}
}
