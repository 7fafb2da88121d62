// Package memory holds the RAM-only registration store. Nothing in this
// package touches disk or the network; entries disappear on restart, which
// is the point.
package memory

import (
	"sync"
	"time"

	"github.com/sssalamanders/penny-lane/internal/core/domain"
	"github.com/sssalamanders/penny-lane/internal/core/port"
)

const defaultTTL = 5 * time.Minute

// RegistrationStore keeps at most one live entry per subject, each bounded
// by a fixed TTL. Expired entries are evicted lazily on lookup and in bulk
// by Sweep.
type RegistrationStore struct {
	mu      sync.Mutex
	entries map[int64]domain.RegistrationEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistrationStore constructs a store with the provided TTL. A
// non-positive TTL falls back to the five minute default.
func NewRegistrationStore(ttl time.Duration) *RegistrationStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RegistrationStore{
		entries: make(map[int64]domain.RegistrationEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put inserts or replaces the subject's entry with a fresh expiry window.
func (s *RegistrationStore) Put(subjectID int64, state domain.RegistrationState, groupID int64) domain.RegistrationEntry {
	now := s.clock().UTC()
	entry := domain.RegistrationEntry{
		SubjectID: subjectID,
		State:     state,
		GroupID:   groupID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.entries[subjectID] = entry
	s.mu.Unlock()

	return entry
}

// Get returns the subject's live entry. An expired entry is removed as a
// side effect and reported as absent.
func (s *RegistrationStore) Get(subjectID int64) (domain.RegistrationEntry, bool) {
	now := s.clock().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[subjectID]
	if !ok {
		return domain.RegistrationEntry{}, false
	}
	if entry.Expired(now) {
		delete(s.entries, subjectID)
		return domain.RegistrationEntry{}, false
	}

	return entry, true
}

// Take atomically reads and removes the subject's live entry. A second Take
// for the same subject observes absence, which is what enforces one-time
// delivery.
func (s *RegistrationStore) Take(subjectID int64) (domain.RegistrationEntry, bool) {
	now := s.clock().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[subjectID]
	if !ok {
		return domain.RegistrationEntry{}, false
	}

	delete(s.entries, subjectID)

	if entry.Expired(now) {
		return domain.RegistrationEntry{}, false
	}

	return entry, true
}

// Sweep removes every entry expired at the provided instant and returns how
// many were dropped.
func (s *RegistrationStore) Sweep(now time.Time) int {
	now = now.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for subjectID, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, subjectID)
			removed++
		}
	}

	return removed
}

// Len reports the current entry count.
func (s *RegistrationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// WithClock overrides the internal clock, used in tests.
func (s *RegistrationStore) WithClock(clock func() time.Time) *RegistrationStore {
	if clock != nil {
		s.now = clock
	}
	return s
}

func (s *RegistrationStore) clock() time.Time {
	return s.now()
}

var _ port.RegistrationStore = (*RegistrationStore)(nil)
