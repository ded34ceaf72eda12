package location

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/yanqian/planetary-hours/internal/domain/planetary"
	apperrors "github.com/yanqian/planetary-hours/pkg/errors"
)

const maxNameLength = 100

// Service manages saved locations.
type Service interface {
	Add(ctx context.Context, req AddRequest) (Location, error)
	List(ctx context.Context) ([]Location, error)
	Get(ctx context.Context, id int64) (Location, error)
	Delete(ctx context.Context, id int64) (Location, error)
	Default(ctx context.Context) (Location, bool, error)
	Resolve(ctx context.Context, latitude, longitude *float64) (Resolved, error)
}

type service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
}

// NewService wires up the location domain.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With("component", "location.service"),
	}
}

func (s *service) Add(ctx context.Context, req AddRequest) (Location, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name cannot be empty", nil)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return Location{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("name cannot exceed %d characters", maxNameLength), nil)
	}
	if err := planetary.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return Location{}, err
	}

	loc, err := s.repo.Create(ctx, Location{
		Name:      name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save location", err)
	}
	s.logger.Info("location added", "id", loc.ID, "name", loc.Name, "default", loc.IsDefault)
	return loc, nil
}

func (s *service) List(ctx context.Context) ([]Location, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list locations", err)
	}
	if items == nil {
		items = []Location{}
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id int64) (Location, error) {
	loc, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load location", err)
	}
	if !found {
		return Location{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("location %d not found", id), nil)
	}
	return loc, nil
}

func (s *service) Delete(ctx context.Context, id int64) (Location, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return Location{}, err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return Location{}, apperrors.Wrap(apperrors.CodeStorage, "failed to delete location", err)
	}
	if !deleted {
		return Location{}, apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("location %d not found", id), nil)
	}
	s.logger.Info("location deleted", "id", id, "name", loc.Name)
	return loc, nil
}

func (s *service) Default(ctx context.Context) (Location, bool, error) {
	loc, found, err := s.repo.Default(ctx)
	if err != nil {
		return Location{}, false, apperrors.Wrap(apperrors.CodeStorage, "failed to load default location", err)
	}
	return loc, found, nil
}

// Resolve picks the coordinate for a query: explicit values first, then the
// saved default, then the configured fallback.
func (s *service) Resolve(ctx context.Context, latitude, longitude *float64) (Resolved, error) {
	if latitude != nil && longitude != nil {
		if err := planetary.ValidateCoordinates(*latitude, *longitude); err != nil {
			return Resolved{}, err
		}
		return Resolved{Latitude: *latitude, Longitude: *longitude, Source: SourceRequest}, nil
	}

	loc, found, err := s.repo.Default(ctx)
	if err != nil {
		s.logger.Warn("default location lookup failed, using fallback", "error", err)
	} else if found {
		return Resolved{Latitude: loc.Latitude, Longitude: loc.Longitude, Source: SourceDefault, Name: loc.Name}, nil
	}
	return Resolved{Latitude: s.cfg.FallbackLatitude, Longitude: s.cfg.FallbackLongitude, Source: SourceFallback}, nil
}
