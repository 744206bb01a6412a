package chat

import "errors"

var (
	// ErrNotFound covers missing channels, conversations, messages and
	// membership records. A conversation the actor is no party of resolves
	// to ErrNotFound too, so its existence is never leaked.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor is authenticated but lacks permission
	// for this specific operation.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyDeleted means the target message is tombstoned. The
	// transition is terminal, repeated deletes and late edits both land here.
	ErrAlreadyDeleted = errors.New("message already deleted")

	// ErrValidation means the input itself is unusable.
	ErrValidation = errors.New("invalid input")
)
