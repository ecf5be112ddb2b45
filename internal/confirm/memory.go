package confirm

import (
	"context"
	"sync"
	"time"

	"github.com/nerimoe/prismbot/internal/metrics"
)

// Memory is the in-process Store backend. Staleness is evaluated lazily
// on the next access for a user; there is no background sweep, so an
// entry for a user who never returns lives until process restart. The
// map is keyed by real registered users, so it stays bounded.
type Memory struct {
	ttl     time.Duration
	clock   Clock
	mu      sync.Mutex
	pending map[string]time.Time
}

// NewMemory creates an in-memory confirmation store. A zero ttl falls
// back to DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:     ttl,
		clock:   RealClock{},
		pending: make(map[string]time.Time),
	}
}

// SetClock sets the clock used for window checks (for testing).
func (m *Memory) SetClock(clock Clock) {
	m.clock = clock
}

// BeginOrConfirm implements Store.
func (m *Memory) BeginOrConfirm(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()

	requestedAt, ok := m.pending[userID]
	if ok && now.Sub(requestedAt) < m.ttl {
		delete(m.pending, userID)
		metrics.ConfirmationsTotal.WithLabelValues("confirmed").Inc()
		return true, nil
	}

	if ok {
		metrics.ConfirmationsTotal.WithLabelValues("expired").Inc()
	} else {
		metrics.ConfirmationsTotal.WithLabelValues("pending").Inc()
	}
	m.pending[userID] = now
	return false, nil
}
