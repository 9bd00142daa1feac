package lookuplog

import (
	"context"
	"sync"

	"github.com/yanqian/weather-explorer/internal/domain/weather"
)

// MemoryRepository is an in-memory LookupLog used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []weather.Lookup
	max     int
}

// NewMemoryRepository constructs a log that keeps at most max entries (0 means unbounded).
func NewMemoryRepository(max int) *MemoryRepository {
	return &MemoryRepository{nextID: 1, max: max}
}

// Record implements weather.LookupLog.
func (r *MemoryRepository) Record(_ context.Context, lookup weather.Lookup) (weather.Lookup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lookup.ID = r.nextID
	r.nextID++
	r.records = append(r.records, lookup)
	if r.max > 0 && len(r.records) > r.max {
		r.records = append([]weather.Lookup(nil), r.records[len(r.records)-r.max:]...)
	}
	return lookup, nil
}

// Recent implements weather.LookupLog, newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]weather.Lookup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]weather.Lookup, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

var _ weather.LookupLog = (*MemoryRepository)(nil)
