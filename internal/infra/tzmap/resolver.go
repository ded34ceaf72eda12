package tzmap

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/zsefvlol/timezonemapper"
)

// Resolver maps coordinates to IANA time zones using an offline boundary table.
type Resolver struct {
	mu     sync.RWMutex
	zones  map[string]*time.Location
	logger *slog.Logger
}

// NewResolver constructs a resolver with an empty zone cache.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		zones:  make(map[string]*time.Location),
		logger: logger.With("component", "tzmap.resolver"),
	}
}

// Resolve returns the zone containing the coordinate.
func (r *Resolver) Resolve(latitude, longitude float64) (*time.Location, bool) {
	name := strings.TrimSpace(timezonemapper.LatLngToTimezoneString(latitude, longitude))
	if name == "" {
		return nil, false
	}

	r.mu.RLock()
	loc, ok := r.zones[name]
	r.mu.RUnlock()
	if ok {
		return loc, true
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		r.logger.Warn("timezone not loadable", "zone", name, "error", err)
		return nil, false
	}
	r.mu.Lock()
	r.zones[name] = loc
	r.mu.Unlock()
	return loc, true
}
