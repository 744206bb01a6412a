package hub

import (
	"fmt"

	"concord-backend/internal/chat"
)

// ServerTopic carries channel list events of one server.
func ServerTopic(serverID int64) string {
	return fmt.Sprintf("server:%d:channels", serverID)
}

// SubscribeChat points a session at a thread's two message topics, dropping
// whichever thread it followed before. Called when the client fetches a
// channel's or conversation's message list.
func SubscribeChat(threadID int64, sessionID int64) error {
	client, exists := GetClient(sessionID)
	if !exists {
		return fmt.Errorf("session ID [%d] tried to subscribe to thread [%d] but the session isn't connected to hub", sessionID, threadID)
	}

	client.mutex.Lock()
	defer client.mutex.Unlock()

	if client.CurrentThreadID == threadID {
		return nil
	}

	if client.CurrentThreadID != 0 {
		oldTopics := []string{
			chat.TopicMessages(client.CurrentThreadID),
			chat.TopicMessagesUpdate(client.CurrentThreadID),
		}
		if err := unsubscribe(client, oldTopics...); err != nil {
			return err
		}
	}

	client.CurrentThreadID = threadID
	return subscribe(client, chat.TopicMessages(threadID), chat.TopicMessagesUpdate(threadID))
}

// SubscribeServer points a session at a server's channel events topic.
func SubscribeServer(serverID int64, sessionID int64) error {
	client, exists := GetClient(sessionID)
	if !exists {
		return fmt.Errorf("session ID [%d] tried to subscribe to server [%d] but the session isn't connected to hub", sessionID, serverID)
	}

	client.mutex.Lock()
	defer client.mutex.Unlock()

	if client.CurrentServerID == serverID {
		return nil
	}

	if client.CurrentServerID != 0 {
		if err := unsubscribe(client, ServerTopic(client.CurrentServerID)); err != nil {
			return err
		}
	}

	client.CurrentServerID = serverID
	return subscribe(client, ServerTopic(serverID))
}

func subscribe(client *Client, topics ...string) error {
	if selfContained {
		for _, topic := range topics {
			localPubSub.Subscribe(topic, client.SessionID)
		}
		return nil
	}
	return client.PubSub.Subscribe(client.Ctx, topics...)
}

func unsubscribe(client *Client, topics ...string) error {
	if selfContained {
		for _, topic := range topics {
			localPubSub.Unsubscribe(topic, client.SessionID)
		}
		return nil
	}
	return client.PubSub.Unsubscribe(client.Ctx, topics...)
}
