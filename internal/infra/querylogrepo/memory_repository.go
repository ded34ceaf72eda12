package querylogrepo

import (
	"context"
	"sync"

	"github.com/yanqian/planetary-hours/internal/domain/querylog"
)

// MemoryRepository keeps a bounded, append-only log in memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []querylog.Entry
	max     int
}

// NewMemoryRepository keeps at most max entries; max <= 0 keeps querylog.MaxLimit.
func NewMemoryRepository(max int) *MemoryRepository {
	if max <= 0 {
		max = querylog.MaxLimit
	}
	return &MemoryRepository{max: max}
}

// Insert implements querylog.Repository.
func (r *MemoryRepository) Insert(_ context.Context, entry querylog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if over := len(r.entries) - r.max; over > 0 {
		r.entries = append([]querylog.Entry(nil), r.entries[over:]...)
	}
	return nil
}

// Recent implements querylog.Repository.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]querylog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]querylog.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

var _ querylog.Repository = (*MemoryRepository)(nil)
