// Package notifications provides real-time notification delivery over
// websockets, backed by Redis pub/sub for cross-instance fan-out.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"

	"skillswap/internal/observability"
)

// Max total connections across all users.
const maxTotalConns = 10000

// Hub maps each userID to its single active websocket client. A new
// connection for a user replaces the previous one.
type Hub struct {
	mu       sync.RWMutex
	conns    map[uint]*Client
	shutdown chan struct{}
	done     chan struct{}
	presence *PresenceTracker
	wsLog    *observability.WSLogger
}

// NewHub creates a new Hub. A Redis client is optional; without it presence
// is tracked locally only.
func NewHub(redisClients ...*redis.Client) *Hub {
	var redisClient *redis.Client
	if len(redisClients) > 0 {
		redisClient = redisClients[0]
	}

	h := &Hub{
		conns:    make(map[uint]*Client),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		presence: NewPresenceTracker(redisClient, PresenceConfig{}),
	}
	h.wsLog = observability.NewWSLogger(h.Name())
	return h
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "notification hub" }

// Register attaches a connection for userID. An existing connection for the
// same user is closed and replaced.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()

	if len(h.conns) >= maxTotalConns {
		h.mu.Unlock()
		return nil, errors.New("server connection limit reached")
	}

	replaced := h.conns[userID]
	client := NewClient(h, conn, userID)
	client.IncomingHandler = h.handleIncoming
	client.OnActivity = func(uid uint) {
		h.presence.Touch(context.Background(), uid)
	}
	h.conns[userID] = client
	h.mu.Unlock()

	if replaced != nil {
		// The replaced client never reaches UnregisterClient, so the
		// connection count is unchanged.
		replaced.CloseWith(websocket.ClosePolicyViolation, "Replaced by a newer connection")
		observability.RecordWebSocketEvent("replaced")
	} else {
		observability.WebSocketConnectionsTotal.Inc()
	}

	h.presence.Register(context.Background(), userID)
	h.wsLog.LogConnect(context.Background(), userID)

	return client, nil
}

// UnregisterClient detaches the client if it is still the user's current
// connection. A client that was already replaced is ignored so the
// replacement is not torn down by the old read loop exiting.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	current, ok := h.conns[client.UserID]
	if !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.conns, client.UserID)
	h.mu.Unlock()

	h.presence.Unregister(context.Background(), client.UserID)
	h.wsLog.LogDisconnect(context.Background(), client.UserID, "read loop closed")
	observability.WebSocketConnectionsTotal.Dec()
}

// SendToUser delivers the message to the user's connection. Users without a
// connection are silently skipped.
func (h *Hub) SendToUser(userID uint, message string) {
	h.mu.RLock()
	client, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	client.TrySend([]byte(message))
	observability.RecordWebSocketEvent("delivered")
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for _, client := range h.conns {
		client.TrySend(data)
	}
}

// IsOnline reports whether the user currently counts as present.
func (h *Hub) IsOnline(userID uint) bool {
	return h.presence.IsOnline(context.Background(), userID)
}

// OnlineUserIDs returns the users currently counted as present.
func (h *Hub) OnlineUserIDs(ctx context.Context) []uint {
	return h.presence.OnlineUserIDs(ctx)
}

// SetPresenceCallbacks installs online/offline transition hooks.
func (h *Hub) SetPresenceCallbacks(onOnline, onOffline func(userID uint)) {
	h.presence.SetCallbacks(onOnline, onOffline)
}

// handleIncoming answers client keepalive frames. Anything else is ignored;
// clients only receive on this socket.
func (h *Hub) handleIncoming(c *Client, message []byte) {
	var frame struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &frame); err != nil {
		return
	}
	if frame.Type != "ping" {
		return
	}
	pong, err := json.Marshal(map[string]interface{}{
		"type":      "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	c.TrySend(pong)
	observability.RecordWebSocketEvent("ping")
}

// StartWiring connects the Notifier to this hub: it subscribes to the Redis
// notification channels and forwards payloads to matching connections.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartPatternSubscriber(ctx, func(channel, payload string) {
		if channel == broadcastChannel {
			h.BroadcastAll(payload)
			return
		}
		if !strings.HasPrefix(channel, userChannelPrefix) {
			log.Printf("invalid notification channel: %s", channel)
			return
		}
		var userID uint
		if _, err := fmt.Sscanf(channel, userChannelPrefix+"%d", &userID); err != nil {
			log.Printf("invalid notification channel: %s", channel)
			return
		}
		h.SendToUser(userID, payload)
	})
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.presence.Stop()

	h.mu.Lock()
	for userID, client := range h.conns {
		if client.Conn == nil {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
			log.Printf("failed to write close message for user %d: %v", userID, err)
		}
		if err := client.Conn.Close(); err != nil {
			log.Printf("failed to close websocket for user %d: %v", userID, err)
		}
	}
	h.conns = make(map[uint]*Client)
	h.mu.Unlock()

	close(h.done)

	return nil
}
