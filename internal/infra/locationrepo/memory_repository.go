package locationrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/planetary-hours/internal/domain/location"
	"github.com/yanqian/planetary-hours/pkg/util"
)

// MemoryRepository keeps locations in process memory for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]location.Location
	now    func() time.Time
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		items:  make(map[int64]location.Location),
		now:    util.NowUTC,
	}
}

// Create implements location.Repository.
func (r *MemoryRepository) Create(_ context.Context, loc location.Location) (location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if loc.IsDefault {
		for id, existing := range r.items {
			existing.IsDefault = false
			r.items[id] = existing
		}
	}
	loc.ID = r.nextID
	r.nextID++
	loc.CreatedAt = r.now()
	r.items[loc.ID] = loc
	return loc, nil
}

// List implements location.Repository, ordered by name.
func (r *MemoryRepository) List(_ context.Context) ([]location.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]location.Location, 0, len(r.items))
	for _, loc := range r.items {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a == b {
			return out[i].ID < out[j].ID
		}
		return a < b
	})
	return out, nil
}

// Get implements location.Repository.
func (r *MemoryRepository) Get(_ context.Context, id int64) (location.Location, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.items[id]
	return loc, ok, nil
}

// Delete implements location.Repository.
func (r *MemoryRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

// Default implements location.Repository.
func (r *MemoryRepository) Default(_ context.Context) (location.Location, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, loc := range r.items {
		if loc.IsDefault {
			return loc, true, nil
		}
	}
	return location.Location{}, false, nil
}

var _ location.Repository = (*MemoryRepository)(nil)
