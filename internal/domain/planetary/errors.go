package planetary

import (
	"errors"
	"fmt"
	"math"

	apperrors "github.com/yanqian/planetary-hours/pkg/errors"
)

// Error codes attached to AppErrors produced by this package.
const (
	CodeInvalidInput       = "invalid_input"
	CodeAstronomical       = "astronomical_error"
	CodeDegenerateInterval = "degenerate_interval"
)

var (
	// ErrInvalidCoordinate marks latitude/longitude values outside their range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrAstronomicalComputation marks dates where sunrise or sunset does not occur.
	ErrAstronomicalComputation = errors.New("sunrise/sunset cannot be computed")
	// ErrDegenerateInterval marks a day or night span that is not positive.
	ErrDegenerateInterval = errors.New("degenerate day or night interval")
)

// ValidateCoordinates rejects coordinates outside [-90,90] x [-180,180].
func ValidateCoordinates(latitude, longitude float64) error {
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return apperrors.Wrap(CodeInvalidInput, fmt.Sprintf("latitude %v must be within [-90, 90]", latitude), ErrInvalidCoordinate)
	}
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return apperrors.Wrap(CodeInvalidInput, fmt.Sprintf("longitude %v must be within [-180, 180]", longitude), ErrInvalidCoordinate)
	}
	return nil
}

func astronomicalError(date Date, err error) error {
	if !errors.Is(err, ErrAstronomicalComputation) {
		err = fmt.Errorf("%w: %w", ErrAstronomicalComputation, err)
	}
	return apperrors.Wrap(CodeAstronomical, "no sunrise/sunset on "+date.String(), err)
}
