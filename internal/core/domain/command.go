package domain

// ChatKind distinguishes where an inbound command originated.
type ChatKind string

const (
	ChatPrivate ChatKind = "private"
	ChatGroup   ChatKind = "group"
)

// ChatContext describes the chat a command arrived from. ChatID is the
// originating chat and is always safe to reply into; GroupID and GroupTitle
// are populated only for group-context commands.
type ChatContext struct {
	Kind       ChatKind
	ChatID     int64
	GroupID    int64
	GroupTitle string
}

// Command is one inbound registration command plus its caller metadata.
type Command struct {
	SubjectID int64
	Chat      ChatContext
	// MessageID identifies the triggering chat message so replies can thread
	// onto it. Zero when the transport does not support threading.
	MessageID int
}

// Outcome is the coordinator's terminal classification of a command.
type Outcome string

const (
	// OutcomeAcknowledged means the command was accepted without releasing
	// any identifier (private registration, or a benign no-op).
	OutcomeAcknowledged Outcome = "acknowledged"
	// OutcomeDelivered means the group identifier was sent to the subject
	// over a private channel.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeUnauthorized means the admin check refused the caller.
	OutcomeUnauthorized Outcome = "unauthorized"
	// OutcomeTransientFailure means an upstream capability failed or timed
	// out; the command is safe to retry.
	OutcomeTransientFailure Outcome = "transient_failure"
)

// RelayStatus is the read-only health view exposed by the coordinator.
type RelayStatus struct {
	LiveEntries int
}
