package port

import "context"

// ChatGateway abstracts the chat platform capabilities the coordinator
// consumes. Implementations live in the transport layer; the core never
// talks to the platform directly.
type ChatGateway interface {
	// IsGroupAdmin reports whether the subject holds an administrator or
	// owner role in the group. It performs network I/O and honours the
	// context deadline; any error must be treated as a refusal by callers.
	IsGroupAdmin(ctx context.Context, subjectID, groupID int64) (bool, error)

	// DeliverPrivate sends a message visible only to the subject.
	DeliverPrivate(ctx context.Context, subjectID int64, text string) error

	// Reply sends a non-sensitive acknowledgment back into the originating
	// chat, optionally threaded onto the triggering message.
	Reply(ctx context.Context, chatID int64, messageID int, text string) error
}
