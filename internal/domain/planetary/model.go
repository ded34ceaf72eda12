package planetary

import (
	"time"
)

// Period distinguishes the twelve daylight hours from the twelve night hours.
type Period string

const (
	PeriodDay   Period = "Day"
	PeriodNight Period = "Night"
)

// HourRecord is one twelfth of the daylight or of the night.
type HourRecord struct {
	HourNumber int       `json:"hour_number"`
	Period     Period    `json:"period"`
	Start      time.Time `json:"start_time"`
	End        time.Time `json:"end_time"`
	TimeRange  string    `json:"time_range"`
	Planet     Planet    `json:"planet"`
	Duration   string    `json:"duration"`
	Lore
}

// Contains reports whether t falls in the half-open interval [Start, End).
func (h HourRecord) Contains(t time.Time) bool {
	return !t.Before(h.Start) && t.Before(h.End)
}

// DayInfo describes the planetary day.
type DayInfo struct {
	Date      string `json:"date"`
	DayOfWeek int    `json:"day_of_week"`
	Planet    Planet `json:"planet"`
	Lore
	CalendarDate Date `json:"-"`
}

// CurrentHourInfo is the hour containing a query instant plus progress through it.
type CurrentHourInfo struct {
	HourRecord
	CurrentTime string  `json:"current_time"`
	Progress    float64 `json:"progress"`
}

// DayTable is the computed partition of one civil day, sunrise to next sunrise.
type DayTable struct {
	Date            Date          `json:"date"`
	Ruler           Planet        `json:"ruler"`
	Sunrise         time.Time     `json:"sunrise"`
	Sunset          time.Time     `json:"sunset"`
	NextSunrise     time.Time     `json:"next_sunrise"`
	DayHourLength   time.Duration `json:"day_hour_length"`
	NightHourLength time.Duration `json:"night_hour_length"`
	Hours           []HourRecord  `json:"hours"`
}

// Covers reports whether t lies in [Sunrise, NextSunrise).
func (t DayTable) Covers(instant time.Time) bool {
	return !instant.Before(t.Sunrise) && instant.Before(t.NextSunrise)
}

// In returns a copy of the table with every instant expressed in loc.
func (t DayTable) In(loc *time.Location) DayTable {
	out := t
	out.Sunrise = t.Sunrise.In(loc)
	out.Sunset = t.Sunset.In(loc)
	out.NextSunrise = t.NextSunrise.In(loc)
	out.Hours = make([]HourRecord, len(t.Hours))
	for i, h := range t.Hours {
		h.Start = h.Start.In(loc)
		h.End = h.End.In(loc)
		h.TimeRange = formatRange(h.Start, h.End)
		out.Hours[i] = h
	}
	return out
}

// SunTimes holds sunrise and sunset in the display zone.
type SunTimes struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// Coordinate is a WGS84 position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Request carries the inputs shared by every service operation.
type Request struct {
	Latitude  float64
	Longitude float64
	// At is the query instant; the zero value means now.
	At time.Time
	// Timezone is an IANA zone name; empty means resolve from configuration.
	Timezone string
}

// Overview bundles everything a client needs to render the current planetary state.
type Overview struct {
	Location    Coordinate      `json:"location"`
	Timezone    string          `json:"timezone"`
	Day         DayInfo         `json:"day"`
	CurrentHour CurrentHourInfo `json:"current_hour"`
	AllHours    []HourRecord    `json:"all_hours"`
	Sunrise     time.Time       `json:"sunrise"`
	Sunset      time.Time       `json:"sunset"`
}

// Config wires runtime knobs for the planetary service.
type Config struct {
	DefaultTimezone *time.Location
	ResolveTimezone bool
	CacheTTL        time.Duration
}
