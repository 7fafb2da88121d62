package domain

import "time"

// RegistrationState enumerates the lifecycle states of a registration entry.
type RegistrationState string

const (
	// RegistrationAwaitingGroupContact marks a subject who registered privately
	// and has not yet issued the command inside a group.
	RegistrationAwaitingGroupContact RegistrationState = "awaiting_group_contact"
	// RegistrationFulfilled marks an entry whose group identifier has been
	// resolved and is ready for one-time delivery.
	RegistrationFulfilled RegistrationState = "fulfilled"
)

// RegistrationEntry captures one subject's pending interaction with the relay.
// Entries live in RAM only and are evicted once expired or delivered.
type RegistrationEntry struct {
	SubjectID int64
	State     RegistrationState
	// GroupID is zero until a group-context command has been matched to the
	// subject. Once set it is never rewritten in place; the entry is replaced.
	GroupID   int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry must be treated as absent at the given
// instant. The boundary itself counts as expired.
func (e RegistrationEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
