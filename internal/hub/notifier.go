package hub

import (
	"bytes"
	"encoding/json"

	"concord-backend/internal/chat"
)

// Emit publishes payload on topic, framed as "topic\n<json>" so the client
// can route the event without a second parse. Absence of subscribers is not
// an error.
func Emit(topic string, payload any) error {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Grow(len(topic) + 1 + len(jsonBytes))
	buf.WriteString(topic)
	buf.WriteByte('\n')
	buf.Write(jsonBytes)

	if selfContained {
		localPubSub.Publish(topic, buf.String())
		return nil
	}

	return redisClient.Publish(redisCtx, topic, buf.String()).Err()
}

// Notifier is the chat.Notifier backed by the hub. Publishing happens after
// the mutation is committed and is strictly best-effort: failures are logged
// and swallowed, they never surface to the request that caused them.
type Notifier struct{}

func (Notifier) Publish(topic string, msg *chat.Message) {
	if err := Emit(topic, msg); err != nil {
		sugar.Errorf("dropping broadcast on topic %s: %v", topic, err)
	}
}
