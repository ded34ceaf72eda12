package planetary

import (
	"math"
	"time"
)

// FindHour returns the record whose [Start, End) interval contains instant.
func FindHour(records []HourRecord, instant time.Time) (HourRecord, bool) {
	for _, rec := range records {
		if rec.Contains(instant) {
			return rec, true
		}
	}
	return HourRecord{}, false
}

// CurrentHour returns the record containing instant. When no record matches it
// falls back to the first record, which can misreport the ruling planet;
// callers that need strict answers should use FindHour.
func CurrentHour(records []HourRecord, instant time.Time) HourRecord {
	if rec, ok := FindHour(records, instant); ok {
		return rec
	}
	if len(records) == 0 {
		return HourRecord{}
	}
	return records[0]
}

// Progress is the elapsed share of [start, end) at instant, in percent,
// clamped to [0, 100]. A non-positive interval yields 0.
func Progress(instant, start, end time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 0
	}
	pct := float64(instant.Sub(start)) / float64(total) * 100
	return math.Min(math.Max(pct, 0), 100)
}

// NewCurrentHourInfo attaches the query instant and progress to rec.
func NewCurrentHourInfo(rec HourRecord, instant time.Time) CurrentHourInfo {
	loc := rec.Start.Location()
	return CurrentHourInfo{
		HourRecord:  rec,
		CurrentTime: instant.In(loc).Format(time.TimeOnly),
		Progress:    Progress(instant, rec.Start, rec.End),
	}
}

// NewDayInfo describes the planetary day of d.
func NewDayInfo(d Date) DayInfo {
	planet := DayPlanet(d)
	return DayInfo{
		Date:         d.Long(),
		DayOfWeek:    int(d.Weekday()),
		Planet:       planet,
		Lore:         LoreFor(planet),
		CalendarDate: d,
	}
}
