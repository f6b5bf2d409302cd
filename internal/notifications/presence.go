package notifications

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPresenceOnlineSetKey  = "presence:online_users"
	defaultPresenceLastSeenKeyNS = "presence:last_seen:"
	defaultPresenceTTL           = 90 * time.Second
	defaultOfflineGrace          = 5 * time.Second
	defaultReaperInterval        = 60 * time.Second
)

// PresenceConfig controls Redis presence and cleanup behavior.
type PresenceConfig struct {
	OnlineSetKey       string
	LastSeenKeyPrefix  string
	LastSeenTTL        time.Duration
	OfflineGracePeriod time.Duration
	ReaperInterval     time.Duration
	OnUserOnline       func(userID uint)
	OnUserOffline      func(userID uint)
}

// PresenceTracker tracks which users hold an active connection, mirrors that
// in Redis, and emits online/offline transitions with an offline grace window
// so a quick reconnect never flaps to offline.
type PresenceTracker struct {
	rdb *redis.Client

	mu              sync.RWMutex
	connected       map[uint]struct{}
	offlineTimers   map[uint]*time.Timer
	offlineNotified map[uint]bool

	onlineSetKey      string
	lastSeenKeyPrefix string
	lastSeenTTL       time.Duration
	offlineGrace      time.Duration
	reaperInterval    time.Duration

	onUserOnline  func(userID uint)
	onUserOffline func(userID uint)

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewPresenceTracker creates a tracker and starts a Redis reaper when Redis
// is available.
func NewPresenceTracker(rdb *redis.Client, cfg PresenceConfig) *PresenceTracker {
	p := &PresenceTracker{
		rdb:               rdb,
		connected:         make(map[uint]struct{}),
		offlineTimers:     make(map[uint]*time.Timer),
		offlineNotified:   make(map[uint]bool),
		onlineSetKey:      defaultPresenceOnlineSetKey,
		lastSeenKeyPrefix: defaultPresenceLastSeenKeyNS,
		lastSeenTTL:       defaultPresenceTTL,
		offlineGrace:      defaultOfflineGrace,
		reaperInterval:    defaultReaperInterval,
		onUserOnline:      cfg.OnUserOnline,
		onUserOffline:     cfg.OnUserOffline,
		stopCh:            make(chan struct{}),
	}

	if cfg.OnlineSetKey != "" {
		p.onlineSetKey = cfg.OnlineSetKey
	}
	if cfg.LastSeenKeyPrefix != "" {
		p.lastSeenKeyPrefix = cfg.LastSeenKeyPrefix
	}
	if cfg.LastSeenTTL > 0 {
		p.lastSeenTTL = cfg.LastSeenTTL
	}
	if cfg.OfflineGracePeriod > 0 {
		p.offlineGrace = cfg.OfflineGracePeriod
	}
	if cfg.ReaperInterval > 0 {
		p.reaperInterval = cfg.ReaperInterval
	}

	if p.rdb != nil && p.reaperInterval > 0 {
		go p.reaperLoop()
	}

	return p
}

func (p *PresenceTracker) SetCallbacks(onOnline, onOffline func(userID uint)) {
	p.mu.Lock()
	p.onUserOnline = onOnline
	p.onUserOffline = onOffline
	p.mu.Unlock()
}

func (p *PresenceTracker) SetOfflineGracePeriod(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.offlineGrace = d
	p.mu.Unlock()
}

func (p *PresenceTracker) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.mu.Lock()
		for userID, timer := range p.offlineTimers {
			if timer != nil {
				timer.Stop()
			}
			delete(p.offlineTimers, userID)
		}
		p.mu.Unlock()
	})
}

// Register marks the user's connection as active. Each user holds at most
// one connection, so registering again only refreshes presence.
func (p *PresenceTracker) Register(ctx context.Context, userID uint) {
	wasOnline := p.IsOnline(ctx, userID)

	p.mu.Lock()
	if t, ok := p.offlineTimers[userID]; ok {
		t.Stop()
		delete(p.offlineTimers, userID)
	}
	p.connected[userID] = struct{}{}
	p.offlineNotified[userID] = false
	p.mu.Unlock()

	p.Touch(ctx, userID)
	if !wasOnline {
		p.emitOnline(userID)
	}
}

// Touch refreshes the user's last-seen marker in Redis.
func (p *PresenceTracker) Touch(ctx context.Context, userID uint) {
	if p.rdb == nil {
		return
	}
	uid := strconv.FormatUint(uint64(userID), 10)
	if err := p.rdb.SAdd(ctx, p.onlineSetKey, uid).Err(); err != nil {
		log.Printf("presence touch SADD failed for user %d: %v", userID, err)
	}
	if err := p.rdb.SetEx(ctx, p.lastSeenKey(userID), strconv.FormatInt(time.Now().Unix(), 10), p.lastSeenTTL).Err(); err != nil {
		log.Printf("presence touch SETEX failed for user %d: %v", userID, err)
	}
}

// Unregister marks the user disconnected and schedules the offline
// notification after the grace window.
func (p *PresenceTracker) Unregister(ctx context.Context, userID uint) {
	p.mu.Lock()
	delete(p.connected, userID)

	if t, ok := p.offlineTimers[userID]; ok {
		t.Stop()
	}
	grace := p.offlineGrace
	p.offlineTimers[userID] = time.AfterFunc(grace, func() {
		p.finalizeOffline(context.Background(), userID)
	})
	p.mu.Unlock()
}

func (p *PresenceTracker) IsOnline(ctx context.Context, userID uint) bool {
	p.mu.RLock()
	_, local := p.connected[userID]
	p.mu.RUnlock()
	if local {
		return true
	}

	if p.rdb == nil {
		return false
	}

	exists, err := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
	if err != nil {
		return false
	}
	return exists > 0
}

// OnlineUserIDs returns online user IDs from Redis (with stale filtering),
// unioned with local connections as a fallback safety net.
func (p *PresenceTracker) OnlineUserIDs(ctx context.Context) []uint {
	local := p.localUserIDs()
	if p.rdb == nil {
		return local
	}

	members, err := p.rdb.SMembers(ctx, p.onlineSetKey).Result()
	if err != nil {
		return local
	}

	seen := make(map[uint]struct{}, len(members)+len(local))
	result := make([]uint, 0, len(members)+len(local))

	for _, raw := range members {
		id64, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			continue
		}
		userID := uint(id64)
		exists, existsErr := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
		if existsErr != nil {
			continue
		}
		if exists == 0 {
			_ = p.rdb.SRem(ctx, p.onlineSetKey, raw).Err()
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		result = append(result, userID)
	}

	for _, userID := range local {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		result = append(result, userID)
	}

	return result
}

// reapOnce is test-visible and performs one cleanup pass.
func (p *PresenceTracker) reapOnce(ctx context.Context) {
	if p.rdb == nil {
		return
	}

	members, err := p.rdb.SMembers(ctx, p.onlineSetKey).Result()
	if err != nil {
		return
	}

	for _, raw := range members {
		id64, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			continue
		}
		userID := uint(id64)
		exists, existsErr := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
		if existsErr != nil {
			continue
		}
		if exists > 0 {
			continue
		}

		_ = p.rdb.SRem(ctx, p.onlineSetKey, raw).Err()

		p.mu.RLock()
		_, hasLocal := p.connected[userID]
		p.mu.RUnlock()
		if !hasLocal {
			p.emitOffline(userID)
		}
	}
}

func (p *PresenceTracker) reaperLoop() {
	interval := p.reaperInterval
	if interval <= 0 {
		return
	}
	ctx := context.Background()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.reapOnce(ctx)
		}
	}
}

func (p *PresenceTracker) finalizeOffline(ctx context.Context, userID uint) {
	p.mu.Lock()
	if _, stillConnected := p.connected[userID]; stillConnected {
		delete(p.offlineTimers, userID)
		p.mu.Unlock()
		return
	}
	delete(p.offlineTimers, userID)
	p.mu.Unlock()

	if p.rdb != nil {
		exists, err := p.rdb.Exists(ctx, p.lastSeenKey(userID)).Result()
		if err == nil && exists > 0 {
			// Another process likely refreshed presence. Keep user online.
			return
		}
		_ = p.rdb.SRem(ctx, p.onlineSetKey, strconv.FormatUint(uint64(userID), 10)).Err()
	}

	p.emitOffline(userID)
}

func (p *PresenceTracker) emitOnline(userID uint) {
	p.mu.Lock()
	p.offlineNotified[userID] = false
	cb := p.onUserOnline
	p.mu.Unlock()
	if cb != nil {
		cb(userID)
	}
}

func (p *PresenceTracker) emitOffline(userID uint) {
	p.mu.Lock()
	if p.offlineNotified[userID] {
		p.mu.Unlock()
		return
	}
	p.offlineNotified[userID] = true
	cb := p.onUserOffline
	p.mu.Unlock()
	if cb != nil {
		cb(userID)
	}
}

func (p *PresenceTracker) localUserIDs() []uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]uint, 0, len(p.connected))
	for userID := range p.connected {
		ids = append(ids, userID)
	}
	return ids
}

func (p *PresenceTracker) lastSeenKey(userID uint) string {
	return p.lastSeenKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}
