// Package debounce coalesces rapid repeat scans of the same code.  A
// camera feed can fire the same physical code many times per second;
// only the first presentation within a short window should reach the
// resolver.  This is an operational convenience, not a correctness
// requirement — the resolver is idempotent regardless.
package debounce

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// claimer is the one Redis command the guard needs.
type claimer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Guard suppresses duplicate scans using a Redis SET NX with a TTL per
// (event, raw code) pair.  With a nil client, or when Redis errors, the
// guard fails open and allows the scan: losing debounce is harmless,
// losing check-ins is not.
type Guard struct {
	rdb claimer
	ttl time.Duration
}

// New builds a Guard.  A non-positive ttl falls back to 3s.
func New(rdb *redis.Client, ttl time.Duration) *Guard {
	g := &Guard{ttl: ttl}
	if g.ttl <= 0 {
		g.ttl = 3 * time.Second
	}
	if rdb != nil {
		g.rdb = rdb
	}
	return g
}

// Allow reports whether this presentation of rawCode for the event
// should proceed to resolution.  The first call within the window
// claims the key and returns true; identical scans until the TTL
// expires return false.
func (g *Guard) Allow(ctx context.Context, eventID uint64, rawCode string) bool {
	if g.rdb == nil {
		return true
	}
	sum := sha256.Sum256([]byte(rawCode))
	key := fmt.Sprintf("scan:%d:%s", eventID, hex.EncodeToString(sum[:8]))
	ok, err := g.rdb.SetNX(ctx, key, 1, g.ttl).Result()
	if err != nil {
		log.Printf("debounce: redis unavailable, allowing scan: %v", err)
		return true
	}
	return ok
}
