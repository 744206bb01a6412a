package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"concord-backend/internal/chat"
	"concord-backend/internal/models"
)

// ChannelThread is the chat.Thread for a server channel. Membership is the
// actor's member record in the channel's server.
type ChannelThread struct {
	sqlThread
	channel models.Channel
}

// Channel opens the thread for a channel, or chat.ErrNotFound.
func Channel(ctx context.Context, channelID int64) (*ChannelThread, error) {
	var channel models.Channel
	err := db.QueryRowContext(ctx,
		"SELECT id, server_id, name, type FROM channels WHERE id = ?", channelID).
		Scan(&channel.ID, &channel.ServerID, &channel.Name, &channel.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching channel: %w", err)
	}

	return &ChannelThread{
		sqlThread: sqlThread{table: "messages", parent: "channel_id", threadID: channel.ID},
		channel:   channel,
	}, nil
}

func (t *ChannelThread) ActorMember(ctx context.Context, profileID int64) (*chat.Member, error) {
	return Member(ctx, profileID, t.channel.ServerID)
}

func (t *ChannelThread) ServerID() int64 {
	return t.channel.ServerID
}
