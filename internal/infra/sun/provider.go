package sun

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/yanqian/planetary-hours/internal/domain/planetary"
)

// Provider computes sunrise and sunset locally with go-sunrise.
type Provider struct{}

// NewProvider builds the default sun event provider.
func NewProvider() *Provider {
	return &Provider{}
}

// SunEvents returns sunrise and sunset for the date at the coordinate, in UTC.
// go-sunrise reports polar day and polar night as zero times.
func (p *Provider) SunEvents(latitude, longitude float64, date planetary.Date) (time.Time, time.Time, error) {
	rise, set := sunrise.SunriseSunset(latitude, longitude, date.Year, date.Month, date.Day)
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: sun does not rise or set at (%.4f, %.4f) on %s",
			planetary.ErrAstronomicalComputation, latitude, longitude, date)
	}
	return rise.UTC(), set.UTC(), nil
}

var _ planetary.SunEventProvider = (*Provider)(nil)
