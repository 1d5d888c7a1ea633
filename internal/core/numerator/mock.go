package numerator

import (
	"context"
	"sync"
	"time"
)

// Mock is an in-memory Generator for tests. Counters reset with the instance.
type Mock struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMock creates an in-memory generator.
func NewMock() *Mock {
	return &Mock{counters: make(map[string]int64)}
}

// Next implements Generator.
func (m *Mock) Next(ctx context.Context, companyID string, cfg Config, period time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := buildKey(companyID, cfg, period)
	m.counters[key]++
	return FormatNumber(cfg, period, m.counters[key]), nil
}
