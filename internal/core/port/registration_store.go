package port

import (
	"time"

	"github.com/sssalamanders/penny-lane/internal/core/domain"
)

// RegistrationStore defines the ephemeral, TTL-bounded storage the relay
// keeps per subject. Absence is data, never an error: lookups report a
// missing or expired entry with ok == false.
type RegistrationStore interface {
	// Put inserts or replaces the entry for the subject with a fresh TTL.
	// It always succeeds and returns the stored entry.
	Put(subjectID int64, state domain.RegistrationState, groupID int64) domain.RegistrationEntry

	// Get returns the live entry for the subject. Expired entries are
	// evicted as a side effect and reported as absent.
	Get(subjectID int64) (domain.RegistrationEntry, bool)

	// Take atomically reads and removes the live entry, enforcing
	// consume-once delivery semantics.
	Take(subjectID int64) (domain.RegistrationEntry, bool)

	// Sweep removes every entry whose expiry is at or before now and
	// returns the number of entries removed.
	Sweep(now time.Time) int

	// Len reports the number of entries currently held, including entries
	// that are expired but not yet evicted.
	Len() int
}
