package hourcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/planetary-hours/internal/domain/planetary"
)

const (
	// DefaultMaxEntries bounds the memory cache when no size is configured.
	DefaultMaxEntries = 10_000
	sweepInterval     = time.Minute
)

type tableRecord struct {
	table     planetary.DayTable
	expiresAt time.Time
}

// MemoryCache keeps computed day tables in process memory. Expired tables
// are swept on Save at most once per sweepInterval, and the oldest-expiring
// table is evicted when the cache is full.
type MemoryCache struct {
	mu         sync.RWMutex
	tables     map[string]tableRecord
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

// NewMemoryCache constructs an empty cache holding at most maxEntries tables;
// maxEntries <= 0 means DefaultMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		tables:     make(map[string]tableRecord),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get implements planetary.HourCache.
func (c *MemoryCache) Get(_ context.Context, key string) (planetary.DayTable, bool, error) {
	c.mu.RLock()
	record, ok := c.tables[key]
	c.mu.RUnlock()
	if !ok {
		return planetary.DayTable{}, false, nil
	}
	if c.hasExpired(record.expiresAt, c.now()) {
		c.mu.Lock()
		delete(c.tables, key)
		c.mu.Unlock()
		return planetary.DayTable{}, false, nil
	}
	return cloneTable(record.table), true, nil
}

// Save stores the table with an optional TTL.
func (c *MemoryCache) Save(_ context.Context, key string, table planetary.DayTable, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Sub(c.lastSweep) >= sweepInterval {
		c.sweepLocked(now)
	}
	if _, exists := c.tables[key]; !exists && len(c.tables) >= c.maxEntries {
		c.sweepLocked(now)
		if len(c.tables) >= c.maxEntries {
			c.evictLocked()
		}
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	c.tables[key] = tableRecord{table: cloneTable(table), expiresAt: exp}
	return nil
}

// Len reports the number of stored tables, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

func (c *MemoryCache) sweepLocked(now time.Time) {
	for key, record := range c.tables {
		if c.hasExpired(record.expiresAt, now) {
			delete(c.tables, key)
		}
	}
	c.lastSweep = now
}

// evictLocked drops the table closest to expiry. Tables without a TTL go last.
func (c *MemoryCache) evictLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for key, record := range c.tables {
		exp := record.expiresAt
		if !found || (!exp.IsZero() && (oldest.IsZero() || exp.Before(oldest))) {
			victim, oldest, found = key, exp, true
		}
	}
	if found {
		delete(c.tables, victim)
	}
}

func (c *MemoryCache) hasExpired(ts, now time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(now)
}

func cloneTable(t planetary.DayTable) planetary.DayTable {
	t.Hours = append([]planetary.HourRecord(nil), t.Hours...)
	return t
}

var _ planetary.HourCache = (*MemoryCache)(nil)
