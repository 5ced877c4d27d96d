package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long cached entities stay valid without invalidation.
const DefaultTTL = 5 * time.Minute

// UserKey is the cache key for a user record.
func UserKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// TemplateListKey caches the full template catalog, which only changes on reseed.
const TemplateListKey = "templates:all"

// Aside implements the cache-aside pattern: return the cached value when
// present, otherwise call fill, store the result and return it. A nil or
// unreachable Redis client degrades to calling fill directly.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, fill func() (T, error)) (T, error) {
	var zero T
	rdb := GetClient()
	if rdb != nil {
		raw, err := rdb.Get(ctx, key).Result()
		if err == nil {
			var cached T
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
			// poisoned entry, drop it and refill
			rdb.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			// Redis trouble is not a reason to fail the read
			rdb = nil
		}
	}

	val, err := fill()
	if err != nil {
		return zero, err
	}

	if rdb != nil {
		if raw, jsonErr := json.Marshal(val); jsonErr == nil {
			rdb.Set(ctx, key, raw, ttl)
		}
	}
	return val, nil
}

// Invalidate removes keys after a write so the next read refills.
func Invalidate(ctx context.Context, keys ...string) {
	rdb := GetClient()
	if rdb == nil || len(keys) == 0 {
		return
	}
	rdb.Del(ctx, keys...)
}
