package engine

import (
	"sync"

	"github.com/gammazero/deque"
)

// PatternStats is the outcome history of one pattern signature.
type PatternStats struct {
	Wins   int
	Losses int
}

func (s PatternStats) Total() int { return s.Wins + s.Losses }

func (s PatternStats) WinRate() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Total())
}

// LearningStore records pattern outcomes across rounds and feeds an advisory
// bias back into move selection. It is owned by the caller and injected into
// the engine; implementations must be safe for concurrent use since it
// outlives any single round.
type LearningStore interface {
	RecordOutcome(signature string, won bool)
	Lookup(signature string) (PatternStats, bool)
}

// MemoryStore is a bounded in-memory LearningStore. When the capacity is
// reached the oldest-inserted signature is evicted; outcome data is advisory,
// so losing old keys is acceptable.
type MemoryStore struct {
	mu    sync.Mutex
	cap   int
	stats map[string]PatternStats
	order deque.Deque[string]
}

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 256
	}
	return &MemoryStore{
		cap:   capacity,
		stats: make(map[string]PatternStats),
	}
}

func (m *MemoryStore) RecordOutcome(signature string, won bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stats[signature]
	if !ok {
		if m.order.Len() >= m.cap {
			oldest := m.order.PopFront()
			delete(m.stats, oldest)
		}
		m.order.PushBack(signature)
	}
	if won {
		s.Wins++
	} else {
		s.Losses++
	}
	m.stats[signature] = s
}

func (m *MemoryStore) Lookup(signature string) (PatternStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[signature]
	return s, ok
}

// Snapshot copies the current stats, insertion order not included. Used by
// callers that mirror the store to durable storage.
func (m *MemoryStore) Snapshot() map[string]PatternStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]PatternStats, len(m.stats))
	for k, v := range m.stats {
		out[k] = v
	}
	return out
}

// Load seeds the store, e.g. from rows persisted by a previous run. Existing
// entries for the same signature are replaced.
func (m *MemoryStore) Load(stats map[string]PatternStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range stats {
		if _, ok := m.stats[k]; !ok {
			if m.order.Len() >= m.cap {
				oldest := m.order.PopFront()
				delete(m.stats, oldest)
			}
			m.order.PushBack(k)
		}
		m.stats[k] = v
	}
}
