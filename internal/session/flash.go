package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Flash bucket names. Each page reads its own bucket so a message queued for
// the login page never leaks onto the home page.
const (
	FlashHome          = "home"
	FlashLogin         = "login"
	FlashRegister      = "register"
	FlashProfile       = "profile"
	FlashPost          = "post"
	FlashContact       = "contact"
	FlashAdmin         = "admin"
	FlashAdminUser     = "adminuser"
	FlashAdminPost     = "adminpost"
	FlashAdminCategory = "admincategory"
	FlashAdminReported = "adminreported"
)

// flashTTL caps how long an unread message lingers before Redis drops it.
const flashTTL = 15 * time.Minute

// Flash holds one-shot messages per visitor and bucket. Messages survive
// exactly one redirect: Consume returns them and deletes them.
type Flash struct {
	rdb *redis.Client

	mu  sync.Mutex
	mem map[string][]string
}

// NewFlash builds a flash store. rdb may be nil.
func NewFlash(rdb *redis.Client) *Flash {
	return &Flash{
		rdb: rdb,
		mem: make(map[string][]string),
	}
}

func flashKey(owner, bucket string) string {
	return "flash:" + owner + ":" + bucket
}

// Add queues a message for the owner's bucket.
func (f *Flash) Add(ctx context.Context, owner, bucket, message string) {
	if owner == "" {
		return
	}
	key := flashKey(owner, bucket)

	if f.rdb != nil {
		pipe := f.rdb.Pipeline()
		pipe.RPush(ctx, key, message)
		pipe.Expire(ctx, key, flashTTL)
		if _, err := pipe.Exec(ctx); err == nil {
			return
		}
	}

	f.mu.Lock()
	f.mem[key] = append(f.mem[key], message)
	f.mu.Unlock()
}

// Consume returns and clears the owner's bucket. An empty bucket returns nil.
func (f *Flash) Consume(ctx context.Context, owner, bucket string) []string {
	if owner == "" {
		return nil
	}
	key := flashKey(owner, bucket)

	if f.rdb != nil {
		pipe := f.rdb.Pipeline()
		lrange := pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		if _, err := pipe.Exec(ctx); err == nil {
			msgs := lrange.Val()
			if len(msgs) == 0 {
				return nil
			}
			return msgs
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.mem[key]
	delete(f.mem, key)
	return msgs
}
