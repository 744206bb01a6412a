package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concord-backend/internal/chat"
)

// sqlThread carries the SQL shared by both thread kinds. The two tables are
// identical except for the name of the parent column.
type sqlThread struct {
	table    string // "messages" or "direct_messages"
	parent   string // "channel_id" or "conversation_id"
	threadID int64
}

func (t *sqlThread) ID() int64 {
	return t.threadID
}

func (t *sqlThread) stamp(msg *chat.Message) {
	if t.parent == "channel_id" {
		msg.ChannelID = t.threadID
	} else {
		msg.ConversationID = t.threadID
	}
}

func (t *sqlThread) messageQuery(where string) string {
	return fmt.Sprintf(`
		SELECT
			m.id,
			m.member_id,
			m.content,
			m.file_url,
			m.deleted,
			m.edited,
			members.server_id,
			members.profile_id,
			members.role,
			profiles.display_name,
			profiles.picture
		FROM %s m
		JOIN members ON members.id = m.member_id
		JOIN profiles ON profiles.id = members.profile_id
		WHERE %s`, t.table, where)
}

func (t *sqlThread) scanMessage(scan func(dest ...any) error) (*chat.Message, error) {
	var msg chat.Message
	var fileURL, picture sql.NullString
	err := scan(
		&msg.ID,
		&msg.MemberID,
		&msg.Content,
		&fileURL,
		&msg.Deleted,
		&msg.Edited,
		&msg.Member.ServerID,
		&msg.Member.ProfileID,
		&msg.Member.Role,
		&msg.Member.Profile.DisplayName,
		&picture,
	)
	if err != nil {
		return nil, err
	}
	msg.FileURL = fileURL.String
	msg.Member.ID = msg.MemberID
	msg.Member.Profile.ID = msg.Member.ProfileID
	msg.Member.Profile.Picture = picture.String
	t.stamp(&msg)
	return &msg, nil
}

func (t *sqlThread) Message(ctx context.Context, messageID int64) (*chat.Message, error) {
	query := t.messageQuery(fmt.Sprintf("m.id = ? AND m.%s = ?", t.parent))
	row := db.QueryRowContext(ctx, query, messageID, t.threadID)

	msg, err := t.scanMessage(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching message: %w", err)
	}
	return msg, nil
}

func (t *sqlThread) Insert(ctx context.Context, msg *chat.Message) error {
	t.stamp(msg)
	query := fmt.Sprintf(
		"INSERT INTO %s (id, %s, member_id, content, file_url, deleted, edited) VALUES (?, ?, ?, ?, ?, FALSE, FALSE)",
		t.table, t.parent)
	_, err := db.ExecContext(ctx, query, msg.ID, t.threadID, msg.MemberID, msg.Content, nullable(msg.FileURL))
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func (t *sqlThread) UpdateContent(ctx context.Context, messageID int64, content string) (*chat.Message, error) {
	// gated on deleted = FALSE so a concurrent tombstone can't be overwritten
	query := fmt.Sprintf(
		"UPDATE %s SET content = ?, edited = TRUE WHERE id = ? AND %s = ? AND deleted = FALSE",
		t.table, t.parent)
	_, err := db.ExecContext(ctx, query, content, messageID, t.threadID)
	if err != nil {
		return nil, fmt.Errorf("updating message: %w", err)
	}

	msg, err := t.Message(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, chat.ErrAlreadyDeleted
	}
	return msg, nil
}

func (t *sqlThread) Tombstone(ctx context.Context, messageID int64) (*chat.Message, error) {
	// the deleted flag flips FALSE -> TRUE, so affected rows reliably tells
	// apart the winner of two concurrent deletes
	query := fmt.Sprintf(
		"UPDATE %s SET content = ?, file_url = NULL, deleted = TRUE WHERE id = ? AND %s = ? AND deleted = FALSE",
		t.table, t.parent)
	res, err := db.ExecContext(ctx, query, chat.DeletedPlaceholder, messageID, t.threadID)
	if err != nil {
		return nil, fmt.Errorf("tombstoning message: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, err := t.Message(ctx, messageID); err != nil {
			return nil, err
		}
		return nil, chat.ErrAlreadyDeleted
	}

	return t.Message(ctx, messageID)
}

func (t *sqlThread) List(ctx context.Context, before int64, limit int) ([]chat.Message, error) {
	where := fmt.Sprintf("m.%s = ?", t.parent)
	args := []any{t.threadID}
	if before != 0 {
		where += " AND m.id < ?"
		args = append(args, before)
	}

	// snowflake IDs are creation-ordered, descending ID is newest first with
	// a stable tie-break built in
	query := t.messageQuery(where) + " ORDER BY m.id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []chat.Message{}
	for rows.Next() {
		msg, err := t.scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}
