package chat

import "context"

// Thread is the container a message lives in: a server channel or a two-party
// conversation. The mutation service is written once against this interface,
// the store provides one implementation per kind.
type Thread interface {
	// ID returns the thread's snowflake ID (channel or conversation ID).
	ID() int64

	// ActorMember resolves the acting profile to its member record for this
	// thread. Returns ErrNotFound when the profile is not a member of the
	// channel's server, or not a party of the conversation.
	ActorMember(ctx context.Context, profileID int64) (*Member, error)

	// Message fetches a message of this thread with its author embedded.
	// Returns ErrNotFound when it doesn't exist or belongs to another thread.
	Message(ctx context.Context, messageID int64) (*Message, error)

	// Insert persists a new message. The implementation stamps the thread's
	// own ID onto the message.
	Insert(ctx context.Context, msg *Message) error

	// UpdateContent rewrites a message's content and marks it edited, as a
	// single row update gated on the message not being tombstoned. Returns
	// ErrAlreadyDeleted when a concurrent delete won.
	UpdateContent(ctx context.Context, messageID int64, content string) (*Message, error)

	// Tombstone soft-deletes a message: deleted flag set, content replaced
	// with DeletedPlaceholder, file URL cleared. A single conditional row
	// update; returns ErrAlreadyDeleted when the message already was.
	Tombstone(ctx context.Context, messageID int64) (*Message, error)

	// List returns up to limit messages, newest first (descending snowflake
	// ID). A non-zero before acts as an exclusive cursor.
	List(ctx context.Context, before int64, limit int) ([]Message, error)
}
