package notifications

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_ReconnectReplacesPreviousConnection(t *testing.T) {
	hub := NewHub()

	first, err := hub.Register(10, nil)
	require.NoError(t, err)
	second, err := hub.Register(10, nil)
	require.NoError(t, err)

	hub.SendToUser(10, "hello")

	select {
	case <-second.Send:
	default:
		t.Fatal("expected the newer connection to receive the message")
	}
	select {
	case <-first.Send:
		t.Fatal("replaced connection should not receive messages")
	default:
	}

	// The old read loop exiting must not tear down the replacement.
	hub.UnregisterClient(first)
	assert.True(t, hub.IsOnline(10))

	_ = hub.Shutdown(context.Background())
}

func TestHub_SendToUserWithoutConnectionIsNoop(t *testing.T) {
	hub := NewHub()

	// Must not panic or block.
	hub.SendToUser(999, "nobody home")

	_ = hub.Shutdown(context.Background())
}

func TestHub_BroadcastAllReachesEveryClient(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(1, nil)
	require.NoError(t, err)
	b, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.BroadcastAll(`{"type":"admin_broadcast"}`)

	for _, client := range []*Client{a, b} {
		select {
		case msg := <-client.Send:
			assert.Contains(t, string(msg), "admin_broadcast")
		default:
			t.Fatalf("client %d missed the broadcast", client.UserID)
		}
	}

	_ = hub.Shutdown(context.Background())
}

func TestHub_PingFrameAnsweredWithPong(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(3, nil)
	require.NoError(t, err)

	hub.handleIncoming(client, []byte(`{"type":"ping"}`))

	select {
	case msg := <-client.Send:
		var frame struct {
			Type      string `json:"type"`
			Timestamp string `json:"timestamp"`
		}
		require.NoError(t, json.Unmarshal(msg, &frame))
		assert.Equal(t, "pong", frame.Type)
		assert.NotEmpty(t, frame.Timestamp)
	default:
		t.Fatal("expected a pong reply")
	}

	// Garbage and non-ping frames are ignored.
	hub.handleIncoming(client, []byte(`not json`))
	hub.handleIncoming(client, []byte(`{"type":"subscribe"}`))
	select {
	case <-client.Send:
		t.Fatal("unexpected reply to a non-ping frame")
	default:
	}

	_ = hub.Shutdown(context.Background())
}

func TestHub_GracePeriodSuppressesOfflineOnRapidReconnect(t *testing.T) {
	hub := NewHub()
	hub.presence.SetOfflineGracePeriod(40 * time.Millisecond)

	clientA, err := hub.Register(10, nil)
	require.NoError(t, err)

	hub.UnregisterClient(clientA)
	_, err = hub.Register(10, nil)
	require.NoError(t, err)

	assert.Never(t, func() bool {
		hub.presence.mu.RLock()
		defer hub.presence.mu.RUnlock()
		return hub.presence.offlineNotified[10]
	}, 20*testPollInterval, testPollInterval)
	assert.True(t, hub.IsOnline(10))

	_ = hub.Shutdown(context.Background())
}

func TestHub_DisconnectTriggersOfflineOnce(t *testing.T) {
	hub := NewHub()
	hub.presence.SetOfflineGracePeriod(30 * time.Millisecond)

	client, err := hub.Register(15, nil)
	require.NoError(t, err)

	hub.UnregisterClient(client)
	assert.Eventually(t, func() bool {
		hub.presence.mu.RLock()
		defer hub.presence.mu.RUnlock()
		return hub.presence.offlineNotified[15]
	}, testEventuallyTimeout, testPollInterval)
	assert.False(t, hub.IsOnline(15))

	_ = hub.Shutdown(context.Background())
}

func TestHub_ReaperRemovesStalePresence(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub(rdb)

	var offlineCount int32
	hub.SetPresenceCallbacks(nil, func(_ uint) {
		atomic.AddInt32(&offlineCount, 1)
	})

	ctx := context.Background()
	assert.NoError(t, rdb.SAdd(ctx, defaultPresenceOnlineSetKey, "44").Err())

	hub.presence.reapOnce(ctx)

	isMember, err := rdb.SIsMember(ctx, defaultPresenceOnlineSetKey, "44").Result()
	assert.NoError(t, err)
	assert.False(t, isMember)
	assert.Equal(t, int32(1), atomic.LoadInt32(&offlineCount))

	_ = hub.Shutdown(context.Background())
}

func TestHub_WiringDeliversPublishedNotifications(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	hub := NewHub(rdb)
	notifier := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, notifier))

	client, err := hub.Register(7, nil)
	require.NoError(t, err)

	require.NoError(t, notifier.PublishUser(ctx, 7, `{"type":"swap_request_received"}`))

	assert.Eventually(t, func() bool {
		select {
		case msg := <-client.Send:
			return string(msg) == `{"type":"swap_request_received"}`
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)

	_ = hub.Shutdown(context.Background())
}
