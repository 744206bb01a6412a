package chat

import (
	"context"

	"concord-backend/internal/snowflake"

	"go.uber.org/zap"
)

// Notifier publishes a committed message on a broadcast topic. Delivery is
// best-effort: implementations must swallow transport failures, a publish
// must never fail the mutation it follows.
type Notifier interface {
	Publish(topic string, msg *Message)
}

// Service applies create/edit/soft-delete to any Thread and broadcasts the
// result. It holds no state of its own; the store is the sole point of
// serialization for concurrent mutations of the same message.
type Service struct {
	sugar    *zap.SugaredLogger
	notifier Notifier
}

func NewService(sugar *zap.SugaredLogger, notifier Notifier) *Service {
	return &Service{sugar: sugar, notifier: notifier}
}

type CreateInput struct {
	Content string `json:"content"`
	FileURL string `json:"fileUrl"`
}

// Create inserts a new message authored by the actor's member in the thread.
// Empty content is accepted only for attachment-only messages.
func (s *Service) Create(ctx context.Context, t Thread, profileID int64, input CreateInput) (*Message, error) {
	if input.Content == "" && input.FileURL == "" {
		return nil, ErrValidation
	}

	actor, err := t.ActorMember(ctx, profileID)
	if err != nil {
		return nil, err
	}

	id, err := snowflake.Generate()
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:       id,
		MemberID: actor.ID,
		Content:  input.Content,
		FileURL:  input.FileURL,
		Member:   *actor,
	}

	if err := t.Insert(ctx, msg); err != nil {
		return nil, err
	}

	s.publish(TopicMessages(t.ID()), msg)
	return msg, nil
}

// Edit rewrites a message's content. Owner only, regardless of role.
func (s *Service) Edit(ctx context.Context, t Thread, profileID int64, messageID int64, content string) (*Message, error) {
	if content == "" {
		return nil, ErrValidation
	}

	actor, err := t.ActorMember(ctx, profileID)
	if err != nil {
		return nil, err
	}

	msg, err := t.Message(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, ErrAlreadyDeleted
	}
	if !CanEdit(*actor, msg) {
		return nil, ErrForbidden
	}

	updated, err := t.UpdateContent(ctx, messageID, content)
	if err != nil {
		return nil, err
	}

	s.publish(TopicMessagesUpdate(t.ID()), updated)
	return updated, nil
}

// Delete tombstones a message. Allowed for the owner and for elevated roles.
func (s *Service) Delete(ctx context.Context, t Thread, profileID int64, messageID int64) (*Message, error) {
	actor, err := t.ActorMember(ctx, profileID)
	if err != nil {
		return nil, err
	}

	msg, err := t.Message(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, ErrAlreadyDeleted
	}
	if !CanDelete(*actor, msg) {
		return nil, ErrForbidden
	}

	deleted, err := t.Tombstone(ctx, messageID)
	if err != nil {
		return nil, err
	}

	s.publish(TopicMessagesUpdate(t.ID()), deleted)
	return deleted, nil
}

// List returns the thread's messages newest first for cursor paging. The
// actor must be a member of the thread.
func (s *Service) List(ctx context.Context, t Thread, profileID int64, before int64, limit int) ([]Message, error) {
	if _, err := t.ActorMember(ctx, profileID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return t.List(ctx, before, limit)
}

func (s *Service) publish(topic string, msg *Message) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(topic, msg)
}
