// Package session implements cookie-backed login sessions. The browser holds
// an opaque token, all state lives server-side in Redis with a fixed TTL.
// Without Redis the store degrades to process-local memory, which is enough
// for tests and single-node development.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the session cookie the browser carries.
const CookieName = "user_sid"

// Session is the snapshot of the signed-in user kept server-side.
type Session struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ImageProfile string `json:"image_profile"`
	IsAdmin      bool   `json:"is_admin"`
}

type memEntry struct {
	sess      Session
	expiresAt time.Time
}

// Store creates, resolves and destroys sessions.
type Store struct {
	rdb *redis.Client
	ttl time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
}

// NewStore builds a session store. rdb may be nil.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
		mem: make(map[string]memEntry),
	}
}

// TTL reports the session lifetime, used to set the cookie expiry.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func sessionKey(token string) string {
	return "sess:" + token
}

// Create stores the session and returns its opaque token.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	token := uuid.NewString()

	if s.rdb != nil {
		raw, err := json.Marshal(sess)
		if err != nil {
			return "", err
		}
		if err := s.rdb.Set(ctx, sessionKey(token), raw, s.ttl).Err(); err == nil {
			return token, nil
		}
		// fall through to memory on Redis failure
	}

	s.mu.Lock()
	s.mem[token] = memEntry{sess: sess, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// Get resolves a token. A missing or expired session returns (nil, nil),
// which callers treat as "not signed in".
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, sessionKey(token)).Result()
		if err == nil {
			var sess Session
			if jsonErr := json.Unmarshal([]byte(raw), &sess); jsonErr != nil {
				s.rdb.Del(ctx, sessionKey(token))
				return nil, nil
			}
			return &sess, nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.mem[token]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.mem, token)
		return nil, nil
	}
	sess := entry.sess
	return &sess, nil
}

// Destroy removes a session. Destroying an unknown token is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, sessionKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}
	s.mu.Lock()
	delete(s.mem, token)
	s.mu.Unlock()
	return nil
}
