package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/weather-explorer/internal/domain/viewstate"
	"github.com/yanqian/weather-explorer/pkg/util"
)

type memoryEntry struct {
	state     viewstate.State
	inFlight  bool
	expiresAt time.Time
}

// MemoryStore keeps session view state in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     util.Clock
	entries map[string]memoryEntry
}

// NewMemoryStore constructs a store whose idle sessions expire after ttl (0 keeps them forever).
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     util.NowUTC,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(_ context.Context, session string) (viewstate.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lookup(session)
	if !ok {
		return viewstate.Idle(), nil
	}
	if entry.inFlight {
		return viewstate.Loading(), nil
	}
	return entry.state, nil
}

func (s *MemoryStore) Begin(_ context.Context, session string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, _ := s.lookup(session)
	if entry.inFlight {
		return false, nil
	}
	entry.inFlight = true
	entry.expiresAt = s.expiry()
	s.entries[session] = entry
	return true, nil
}

func (s *MemoryStore) Settle(_ context.Context, session string, state viewstate.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session] = memoryEntry{state: state, expiresAt: s.expiry()}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, session)
	return nil
}

// lookup drops expired entries. Callers hold mu.
func (s *MemoryStore) lookup(session string) (memoryEntry, bool) {
	entry, ok := s.entries[session]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, session)
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemoryStore) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

var _ viewstate.Store = (*MemoryStore)(nil)
