package hourcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/planetary-hours/internal/domain/planetary"
)

// ValkeyCache stores day tables as JSON in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "planetary"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements planetary.HourCache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (planetary.DayTable, bool, error) {
	result := c.client.Do(ctx, c.client.B().Get().Key(c.tableKey(key)).Build())
	payload, err := result.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return planetary.DayTable{}, false, nil
		}
		return planetary.DayTable{}, false, err
	}
	table, err := decodeTable([]byte(payload))
	if err != nil {
		return planetary.DayTable{}, false, err
	}
	return table, true, nil
}

// Save implements planetary.HourCache.
func (c *ValkeyCache) Save(ctx context.Context, key string, table planetary.DayTable, ttl time.Duration) error {
	payload, err := encodeTable(table)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.tableKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) tableKey(key string) string {
	return fmt.Sprintf("%s:day:%s", c.prefix, key)
}

// storedTable is the cache wire form. Times keep their offsets through
// RFC3339 so a decoded table renders the same wall clock.
type storedTable struct {
	Date            string                 `json:"date"`
	Ruler           planetary.Planet       `json:"ruler"`
	Sunrise         time.Time              `json:"sunrise"`
	Sunset          time.Time              `json:"sunset"`
	NextSunrise     time.Time              `json:"next_sunrise"`
	DayHourLength   time.Duration          `json:"day_hour_length"`
	NightHourLength time.Duration          `json:"night_hour_length"`
	Hours           []planetary.HourRecord `json:"hours"`
}

func encodeTable(t planetary.DayTable) ([]byte, error) {
	return json.Marshal(storedTable{
		Date:            t.Date.String(),
		Ruler:           t.Ruler,
		Sunrise:         t.Sunrise,
		Sunset:          t.Sunset,
		NextSunrise:     t.NextSunrise,
		DayHourLength:   t.DayHourLength,
		NightHourLength: t.NightHourLength,
		Hours:           t.Hours,
	})
}

func decodeTable(data []byte) (planetary.DayTable, error) {
	var st storedTable
	if err := json.Unmarshal(data, &st); err != nil {
		return planetary.DayTable{}, err
	}
	date, err := planetary.ParseDate(st.Date)
	if err != nil {
		return planetary.DayTable{}, err
	}
	return planetary.DayTable{
		Date:            date,
		Ruler:           st.Ruler,
		Sunrise:         st.Sunrise,
		Sunset:          st.Sunset,
		NextSunrise:     st.NextSunrise,
		DayHourLength:   st.DayHourLength,
		NightHourLength: st.NightHourLength,
		Hours:           st.Hours,
	}, nil
}

var _ planetary.HourCache = (*ValkeyCache)(nil)
