package hub

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Client struct {
	ProfileID int64
	SessionID int64
	Conn      *websocket.Conn
	WsChannel chan string
	PubSub    *redis.PubSub
	MsgCh     <-chan *redis.Message
	Ctx       context.Context

	// CurrentThreadID is the channel or conversation whose message topics
	// this session currently follows; CurrentServerID likewise for channel
	// list events. Guarded by mutex.
	CurrentThreadID int64
	CurrentServerID int64
	mutex           sync.Mutex
}

var clients = make(map[int64]*Client)
var clientsMutex sync.Mutex

var sugar *zap.SugaredLogger
var redisClient *redis.Client
var selfContained = true
var localPubSub LocalPubSub

var redisCtx = context.Background()

func Setup(_sugar *zap.SugaredLogger, _redisClient *redis.Client, _selfContained bool) {
	sugar = _sugar
	redisClient = _redisClient
	selfContained = _selfContained
	localPubSub.Setup()
}

// HandleClient upgrades the request to a WebSocket and pumps broadcast
// frames to it until the peer goes away. The session ID cookie keys the
// client registry; REST handlers use it to steer subscriptions.
func HandleClient(w http.ResponseWriter, r *http.Request, profileID int64) {
	sessionCookie, err := r.Cookie("session")
	if err != nil {
		sugar.Debug(err)
		switch {
		case errors.Is(err, http.ErrNoCookie):
			http.Error(w, "No session cookie was provided", http.StatusUnauthorized)
		default:
			http.Error(w, "Couldn't read session cookie", http.StatusInternalServerError)
		}
		return
	}

	sessionID, err := strconv.ParseInt(sessionCookie.Value, 10, 64)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "Session cookie is in improper format", http.StatusBadRequest)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sugar.Error(err)
		return
	}
	defer conn.Close()

	clientCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &Client{
		ProfileID: profileID,
		SessionID: sessionID,
		Conn:      conn,
		WsChannel: make(chan string, 64),
		Ctx:       clientCtx,
	}

	if !selfContained {
		pubsub := redisClient.Subscribe(clientCtx)
		defer pubsub.Close()
		client.PubSub = pubsub
		client.MsgCh = pubsub.Channel()
	}

	setClient(sessionID, client)
	defer func() {
		deleteClient(sessionID)
		if selfContained {
			localPubSub.UnsubscribeFromAll(sessionID)
		}
	}()

	go writeLoop(client)

	// incoming frames are ignored, mutations arrive over REST
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			sugar.Debugf("Session ID %d disconnected: %v", sessionID, err)
			return
		}
	}
}

func writeLoop(client *Client) {
	for {
		select {
		case <-client.Ctx.Done():
			return
		case frame := <-client.WsChannel:
			if err := client.Conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				sugar.Debug(err)
				return
			}
		case msg, ok := <-client.MsgCh:
			if !ok {
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				sugar.Debug(err)
				return
			}
		}
	}
}

func setClient(sessionID int64, client *Client) {
	sugar.Debugf("Adding profile ID [%d] to clients as session ID [%d]", client.ProfileID, sessionID)
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	clients[sessionID] = client
}

func deleteClient(sessionID int64) {
	sugar.Debugf("Removing session ID [%d] from clients", sessionID)
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	delete(clients, sessionID)
}

func GetClient(sessionID int64) (*Client, bool) {
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	client, exists := clients[sessionID]
	return client, exists
}
