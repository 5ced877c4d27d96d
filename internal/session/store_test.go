package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func TestStore_CreateGetDestroy(t *testing.T) {
	rdb, _ := setupRedis(t)
	store := NewStore(rdb, 10*time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, Session{
		UserID: 7,
		Email:  "ada@example.com",
		Name:   "Ada Lovelace",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := store.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, uint(7), sess.UserID)
	assert.Equal(t, "Ada Lovelace", sess.Name)

	require.NoError(t, store.Destroy(ctx, token))

	sess, err = store.Get(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, sess, "destroyed session resolves to signed-out")
}

func TestStore_UnknownTokenIsSignedOut(t *testing.T) {
	rdb, _ := setupRedis(t)
	store := NewStore(rdb, 10*time.Minute)

	sess, err := store.Get(context.Background(), "not-a-real-token")
	require.NoError(t, err)
	assert.Nil(t, sess)

	sess, err = store.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_SessionExpires(t *testing.T) {
	rdb, mr := setupRedis(t)
	store := NewStore(rdb, 10*time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, Session{UserID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	mr.FastForward(11 * time.Minute)

	sess, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_MemoryFallback(t *testing.T) {
	store := NewStore(nil, 10*time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, Session{UserID: 3, Email: "x@y.z"})
	require.NoError(t, err)

	sess, err := store.Get(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, uint(3), sess.UserID)

	require.NoError(t, store.Destroy(ctx, token))
	sess, err = store.Get(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestFlash_ConsumeIsOneShot(t *testing.T) {
	rdb, _ := setupRedis(t)
	flash := NewFlash(rdb)
	ctx := context.Background()

	flash.Add(ctx, "owner-1", FlashLogin, "Invalid email or password!!")
	flash.Add(ctx, "owner-1", FlashLogin, "try again")

	msgs := flash.Consume(ctx, "owner-1", FlashLogin)
	require.Equal(t, []string{"Invalid email or password!!", "try again"}, msgs)

	assert.Nil(t, flash.Consume(ctx, "owner-1", FlashLogin), "second read is empty")
}

func TestFlash_BucketsAreIsolated(t *testing.T) {
	rdb, _ := setupRedis(t)
	flash := NewFlash(rdb)
	ctx := context.Background()

	flash.Add(ctx, "owner-1", FlashLogin, "login message")
	flash.Add(ctx, "owner-1", FlashHome, "home message")
	flash.Add(ctx, "owner-2", FlashLogin, "someone else")

	assert.Equal(t, []string{"login message"}, flash.Consume(ctx, "owner-1", FlashLogin))
	assert.Equal(t, []string{"home message"}, flash.Consume(ctx, "owner-1", FlashHome))
	assert.Equal(t, []string{"someone else"}, flash.Consume(ctx, "owner-2", FlashLogin))
}

func TestFlash_MemoryFallback(t *testing.T) {
	flash := NewFlash(nil)
	ctx := context.Background()

	flash.Add(ctx, "owner-1", FlashPost, "saved")
	assert.Equal(t, []string{"saved"}, flash.Consume(ctx, "owner-1", FlashPost))
	assert.Nil(t, flash.Consume(ctx, "owner-1", FlashPost))
}
