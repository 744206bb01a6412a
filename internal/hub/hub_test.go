package hub

import (
	"context"
	"strings"
	"testing"

	"concord-backend/internal/chat"

	"go.uber.org/zap"
)

func setupTestHub(t *testing.T) {
	t.Helper()
	Setup(zap.NewNop().Sugar(), nil, true)
}

func addTestClient(t *testing.T, sessionID int64) *Client {
	t.Helper()
	client := &Client{
		ProfileID: sessionID * 100,
		SessionID: sessionID,
		WsChannel: make(chan string, 64),
		Ctx:       context.Background(),
	}
	setClient(sessionID, client)
	t.Cleanup(func() { deleteClient(sessionID) })
	return client
}

func TestLocalPubSubBookkeeping(t *testing.T) {
	setupTestHub(t)

	localPubSub.Subscribe("chat:1:messages", 7)
	localPubSub.Subscribe("chat:1:messages", 8)
	localPubSub.Subscribe("chat:1:messages", 7) // duplicate subscription is a no-op

	if got := localPubSub.Subscribers("chat:1:messages"); got != 2 {
		t.Errorf("got %d subscribers, want 2", got)
	}

	localPubSub.Unsubscribe("chat:1:messages", 7)
	if got := localPubSub.Subscribers("chat:1:messages"); got != 1 {
		t.Errorf("got %d subscribers, want 1", got)
	}

	localPubSub.UnsubscribeFromAll(8)
	if got := localPubSub.Subscribers("chat:1:messages"); got != 0 {
		t.Errorf("got %d subscribers, want 0", got)
	}
}

func TestEmitDeliversFramedPayload(t *testing.T) {
	setupTestHub(t)
	client := addTestClient(t, 7)

	topic := chat.TopicMessages(42)
	localPubSub.Subscribe(topic, client.SessionID)

	msg := &chat.Message{ID: 1, ChannelID: 42, Content: "hi"}
	if err := Emit(topic, msg); err != nil {
		t.Fatal(err)
	}

	select {
	case frame := <-client.WsChannel:
		if !strings.HasPrefix(frame, topic+"\n") {
			t.Errorf("frame not prefixed with topic: %q", frame)
		}
		if !strings.Contains(frame, `"content":"hi"`) {
			t.Errorf("frame missing payload: %q", frame)
		}
	default:
		t.Fatal("no frame delivered")
	}
}

func TestEmitWithoutSubscribersIsNoop(t *testing.T) {
	setupTestHub(t)

	if err := Emit(chat.TopicMessagesUpdate(42), &chat.Message{ID: 1}); err != nil {
		t.Errorf("publish without subscribers must not fail: %v", err)
	}
}

func TestSubscribeChatSwitchesThreads(t *testing.T) {
	setupTestHub(t)
	client := addTestClient(t, 9)

	if err := SubscribeChat(1, client.SessionID); err != nil {
		t.Fatal(err)
	}
	if err := SubscribeChat(2, client.SessionID); err != nil {
		t.Fatal(err)
	}

	if got := localPubSub.Subscribers(chat.TopicMessages(1)); got != 0 {
		t.Errorf("still %d subscribers on old thread topic", got)
	}
	if got := localPubSub.Subscribers(chat.TopicMessages(2)); got != 1 {
		t.Errorf("got %d subscribers on new thread topic, want 1", got)
	}
	if got := localPubSub.Subscribers(chat.TopicMessagesUpdate(2)); got != 1 {
		t.Errorf("got %d subscribers on new update topic, want 1", got)
	}

	if err := SubscribeChat(3, 12345); err == nil {
		t.Error("expected error for unknown session, got nil")
	}
}
