package hub

import (
	"sync"
)

// LocalPubSub replaces redis pub/sub in self-contained mode: topic name to
// subscribed session IDs, delivery straight into each client's write channel.
type LocalPubSub struct {
	mutex   sync.RWMutex
	hashMap map[string][]int64
}

func (ps *LocalPubSub) Setup() {
	ps.hashMap = make(map[string][]int64)
}

func (ps *LocalPubSub) Subscribe(topic string, sessionID int64) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for _, id := range ps.hashMap[topic] {
		if id == sessionID {
			return
		}
	}
	ps.hashMap[topic] = append(ps.hashMap[topic], sessionID)
}

func (ps *LocalPubSub) Unsubscribe(topic string, sessionID int64) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	ps.unsubscribeLocked(topic, sessionID)
}

func (ps *LocalPubSub) unsubscribeLocked(topic string, sessionID int64) {
	sessionIDs := ps.hashMap[topic]

	// won't run in case the topic doesn't exist since length will be 0
	for i := range sessionIDs {
		if sessionIDs[i] == sessionID {
			sessionIDs[i] = sessionIDs[len(sessionIDs)-1]
			ps.hashMap[topic] = sessionIDs[:len(sessionIDs)-1]
			break
		}
	}

	// drop the topic once nobody listens to it
	if len(ps.hashMap[topic]) == 0 {
		delete(ps.hashMap, topic)
	}
}

func (ps *LocalPubSub) UnsubscribeFromAll(sessionID int64) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for topic := range ps.hashMap {
		ps.unsubscribeLocked(topic, sessionID)
	}
}

func (ps *LocalPubSub) Publish(topic string, frame string) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	for _, sessionID := range ps.hashMap[topic] {
		client, exists := GetClient(sessionID)
		if !exists {
			sugar.Warnf("Session ID %d is supposed to be available", sessionID)
			continue
		}
		select {
		case client.WsChannel <- frame:
		default:
			// slow consumer, drop rather than stall the publisher
			sugar.Warnf("Dropping frame for slow session ID %d on topic %s", sessionID, topic)
		}
	}
}

func (ps *LocalPubSub) Subscribers(topic string) int {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	return len(ps.hashMap[topic])
}
