package chat

import (
	"fmt"

	"concord-backend/internal/models"
)

// DeletedPlaceholder replaces a message's content on soft delete.
const DeletedPlaceholder = "This message has been deleted"

type Member struct {
	ID        int64          `json:"id,string"`
	ServerID  int64          `json:"serverID,string,omitempty"`
	ProfileID int64          `json:"profileID,string"`
	Role      Role           `json:"role"`
	Profile   models.Profile `json:"profile"`
}

// Message is a chat message in either a channel or a conversation; exactly
// one of ChannelID/ConversationID is set, depending on the thread it came
// from. The author's member record (with profile) is embedded so broadcast
// payloads are self-contained.
type Message struct {
	ID             int64  `json:"id,string"`
	ChannelID      int64  `json:"channelID,string,omitempty"`
	ConversationID int64  `json:"conversationID,string,omitempty"`
	MemberID       int64  `json:"memberID,string"`
	Content        string `json:"content"`
	FileURL        string `json:"fileUrl,omitempty"`
	Deleted        bool   `json:"deleted"`
	Edited         bool   `json:"edited"`
	Member         Member `json:"member"`
}

// TopicMessages is the broadcast topic for newly created messages of a
// thread. Thread IDs are snowflakes, so channel and conversation topics
// never collide.
func TopicMessages(threadID int64) string {
	return fmt.Sprintf("chat:%d:messages", threadID)
}

// TopicMessagesUpdate is the broadcast topic for edits and deletes.
func TopicMessagesUpdate(threadID int64) string {
	return TopicMessages(threadID) + ":update"
}
