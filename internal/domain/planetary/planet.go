package planetary

import (
	"strings"
	"time"
)

// Planet identifies one of the seven classical planets.
type Planet string

const (
	Sun     Planet = "Sun"
	Moon    Planet = "Moon"
	Mars    Planet = "Mars"
	Mercury Planet = "Mercury"
	Jupiter Planet = "Jupiter"
	Venus   Planet = "Venus"
	Saturn  Planet = "Saturn"
)

// ChaldeanOrder is the fixed rotation used to assign planets to successive hours.
var ChaldeanOrder = [7]Planet{Saturn, Jupiter, Mars, Sun, Venus, Mercury, Moon}

// weekdayRulers is indexed by time.Weekday, which already counts from Sunday = 0.
var weekdayRulers = [7]Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

// chaldeanIndex returns the position of p in ChaldeanOrder.
func (p Planet) chaldeanIndex() (int, bool) {
	switch p {
	case Saturn:
		return 0, true
	case Jupiter:
		return 1, true
	case Mars:
		return 2, true
	case Sun:
		return 3, true
	case Venus:
		return 4, true
	case Mercury:
		return 5, true
	case Moon:
		return 6, true
	default:
		return -1, false
	}
}

// Valid reports whether p is one of the seven planets.
func (p Planet) Valid() bool {
	_, ok := p.chaldeanIndex()
	return ok
}

func (p Planet) String() string {
	return string(p)
}

// ParsePlanet matches a planet name case-insensitively.
func ParsePlanet(name string) (Planet, bool) {
	for _, p := range ChaldeanOrder {
		if strings.EqualFold(strings.TrimSpace(name), string(p)) {
			return p, true
		}
	}
	return "", false
}

// DayPlanet returns the ruler of the civil day d.
func DayPlanet(d Date) Planet {
	return WeekdayPlanet(d.Weekday())
}

// WeekdayPlanet maps a weekday to its ruling planet.
func WeekdayPlanet(wd time.Weekday) Planet {
	return weekdayRulers[((int(wd)%7)+7)%7]
}

// hourPlanet returns the planet ruling the n-th hour (0-based, day hours
// first) of a day ruled by ruler.
func hourPlanet(ruler Planet, n int) Planet {
	idx, ok := ruler.chaldeanIndex()
	if !ok {
		idx = 0
	}
	return ChaldeanOrder[(idx+n)%len(ChaldeanOrder)]
}
