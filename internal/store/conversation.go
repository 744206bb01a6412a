package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concord-backend/internal/chat"
	"concord-backend/internal/models"
	"concord-backend/internal/snowflake"
)

// ConversationThread is the chat.Thread for a two-party conversation. Only
// the two member parties resolve as actors; everyone else gets ErrNotFound,
// the same answer as for a conversation that doesn't exist.
type ConversationThread struct {
	sqlThread
	conversation models.Conversation
}

// Conversation opens the thread for a conversation, or chat.ErrNotFound.
func Conversation(ctx context.Context, conversationID int64) (*ConversationThread, error) {
	var conversation models.Conversation
	err := db.QueryRowContext(ctx,
		"SELECT id, member_one_id, member_two_id FROM conversations WHERE id = ?", conversationID).
		Scan(&conversation.ID, &conversation.MemberOneID, &conversation.MemberTwoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching conversation: %w", err)
	}

	return &ConversationThread{
		sqlThread:    sqlThread{table: "direct_messages", parent: "conversation_id", threadID: conversation.ID},
		conversation: conversation,
	}, nil
}

func (t *ConversationThread) ActorMember(ctx context.Context, profileID int64) (*chat.Member, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+memberColumns+`
		FROM members
		JOIN profiles ON profiles.id = members.profile_id
		WHERE members.id IN (?, ?) AND members.profile_id = ?`,
		t.conversation.MemberOneID, t.conversation.MemberTwoID, profileID)
	return scanMember(row)
}

// FindOrCreateConversation returns the conversation for a member pair in
// either order, creating it lazily on first contact. The pair is stored
// lower ID first so the unique constraint holds regardless of who starts.
func FindOrCreateConversation(ctx context.Context, memberOneID, memberTwoID int64) (*models.Conversation, error) {
	if memberOneID == memberTwoID {
		return nil, chat.ErrValidation
	}
	if memberOneID > memberTwoID {
		memberOneID, memberTwoID = memberTwoID, memberOneID
	}

	conversation, err := findConversation(ctx, memberOneID, memberTwoID)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, chat.ErrNotFound) {
		return nil, err
	}

	id, err := snowflake.Generate()
	if err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO conversations (id, member_one_id, member_two_id) VALUES (?, ?, ?)",
		id, memberOneID, memberTwoID)
	if err != nil {
		// a concurrent first contact may have won the insert
		if conversation, findErr := findConversation(ctx, memberOneID, memberTwoID); findErr == nil {
			return conversation, nil
		}
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	return &models.Conversation{ID: id, MemberOneID: memberOneID, MemberTwoID: memberTwoID}, nil
}

func findConversation(ctx context.Context, memberOneID, memberTwoID int64) (*models.Conversation, error) {
	var conversation models.Conversation
	err := db.QueryRowContext(ctx, `
		SELECT id, member_one_id, member_two_id
		FROM conversations
		WHERE (member_one_id = ? AND member_two_id = ?)
		   OR (member_one_id = ? AND member_two_id = ?)`,
		memberOneID, memberTwoID, memberTwoID, memberOneID).
		Scan(&conversation.ID, &conversation.MemberOneID, &conversation.MemberTwoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}
