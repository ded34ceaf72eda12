package planetary

import (
	"fmt"
	"time"

	apperrors "github.com/yanqian/planetary-hours/pkg/errors"
)

const hoursPerPeriod = 12

// SunEventProvider yields sunrise and sunset instants for a calendar date.
type SunEventProvider interface {
	SunEvents(latitude, longitude float64, date Date) (sunrise, sunset time.Time, err error)
}

// ComputeDay partitions the civil day that starts at the sunrise of date into
// 24 planetary hours. Instants in the result are expressed in loc.
func ComputeDay(provider SunEventProvider, latitude, longitude float64, date Date, loc *time.Location) (DayTable, error) {
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return DayTable{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	sunrise, sunset, err := sunEventsOn(provider, latitude, longitude, date, loc)
	if err != nil {
		return DayTable{}, astronomicalError(date, err)
	}
	next := date.AddDays(1)
	nextSunrise, _, err := sunEventsOn(provider, latitude, longitude, next, loc)
	if err != nil {
		return DayTable{}, astronomicalError(next, err)
	}

	daySpan := sunset.Sub(sunrise)
	if daySpan <= 0 {
		return DayTable{}, apperrors.Wrap(CodeDegenerateInterval,
			fmt.Sprintf("day duration %s on %s is not positive", daySpan, date), ErrDegenerateInterval)
	}
	nightSpan := nextSunrise.Sub(sunset)
	if nightSpan <= 0 {
		return DayTable{}, apperrors.Wrap(CodeDegenerateInterval,
			fmt.Sprintf("night duration %s on %s is not positive", nightSpan, date), ErrDegenerateInterval)
	}

	ruler := DayPlanet(date)
	hours := make([]HourRecord, 0, 2*hoursPerPeriod)
	hours = appendPeriod(hours, PeriodDay, ruler, 0, sunrise.In(loc), daySpan)
	hours = appendPeriod(hours, PeriodNight, ruler, hoursPerPeriod, sunset.In(loc), nightSpan)

	return DayTable{
		Date:            date,
		Ruler:           ruler,
		Sunrise:         sunrise.In(loc),
		Sunset:          sunset.In(loc),
		NextSunrise:     nextSunrise.In(loc),
		DayHourLength:   daySpan / hoursPerPeriod,
		NightHourLength: nightSpan / hoursPerPeriod,
		Hours:           hours,
	}, nil
}

// ComputeDayHours returns the 24 hour records of the civil day starting at
// the sunrise of date, day hours first.
func ComputeDayHours(provider SunEventProvider, latitude, longitude float64, date Date, loc *time.Location) ([]HourRecord, error) {
	table, err := ComputeDay(provider, latitude, longitude, date, loc)
	if err != nil {
		return nil, err
	}
	return table.Hours, nil
}

// sunEventsOn returns the events whose sunrise falls on date in loc. Providers
// answer per UTC date, so where the zone runs far from solar time (Samoa,
// Kiribati) the sunrise lands on the neighbouring local date and the adjacent
// date is asked instead.
func sunEventsOn(provider SunEventProvider, latitude, longitude float64, date Date, loc *time.Location) (time.Time, time.Time, error) {
	sunrise, sunset, err := provider.SunEvents(latitude, longitude, date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	got := DateOf(sunrise.In(loc))
	if got == date {
		return sunrise, sunset, nil
	}
	shift := 1
	if date.Before(got) {
		shift = -1
	}
	adjRise, adjSet, err := provider.SunEvents(latitude, longitude, date.AddDays(shift))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if DateOf(adjRise.In(loc)) != date {
		return sunrise, sunset, nil
	}
	return adjRise, adjSet, nil
}

// appendPeriod splits span into twelve hours. Boundaries are derived from the
// period start so consecutive records share their boundary instant exactly.
func appendPeriod(out []HourRecord, period Period, ruler Planet, offset int, start time.Time, span time.Duration) []HourRecord {
	duration := fmt.Sprintf("%.2f hours", span.Hours()/hoursPerPeriod)
	for i := 0; i < hoursPerPeriod; i++ {
		from := start.Add(span * time.Duration(i) / hoursPerPeriod)
		to := start.Add(span * time.Duration(i+1) / hoursPerPeriod)
		planet := hourPlanet(ruler, offset+i)
		out = append(out, HourRecord{
			HourNumber: i + 1,
			Period:     period,
			Start:      from,
			End:        to,
			TimeRange:  formatRange(from, to),
			Planet:     planet,
			Duration:   duration,
			Lore:       LoreFor(planet),
		})
	}
	return out
}

func formatRange(from, to time.Time) string {
	return from.Format("15:04") + " - " + to.Format("15:04")
}
