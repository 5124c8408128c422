package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const completionKeyPrefix = "adlens:insights:"

// CachedCompleter memoizes completions in Redis keyed by a prompt hash.
// Cache failures fall through to the wrapped completer.
type CachedCompleter struct {
	next  Completer
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedCompleter wraps next. A nil client disables caching.
func NewCachedCompleter(next Completer, client *redis.Client, ttl time.Duration) Completer {
	if client == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedCompleter{next: next, redis: client, ttl: ttl}
}

func completionKey(system, user string) string {
	h := sha256.New()
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	return completionKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Complete returns a cached completion or calls through and stores it.
func (c *CachedCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	key := completionKey(system, user)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("[insights] cache read failed: %v", err)
	}

	text, err := c.next.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	if _, perr := ParseCompletion(text); perr == nil {
		if err := c.redis.Set(ctx, key, text, c.ttl).Err(); err != nil {
			log.Printf("[insights] cache write failed: %v", err)
		}
	}
	return text, nil
}
