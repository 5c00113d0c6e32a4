package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-signup-service/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func testUser() *domain.User {
	return &domain.User{
		ID:       1,
		Name:     "Bruce Wayne",
		Email:    "bwayne@wayneenterprises.com",
		CPF:      "27854636419",
		Birthday: time.Date(1972, time.February, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestRedisUserCache_Set_Success(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), testUser())
	require.NoError(t, err)

	// Verify data is in Redis with the birthday stored as a plain date
	raw, err := mr.Get("user:1")
	require.NoError(t, err)
	assert.Contains(t, raw, `"birthday":"1972-02-19"`)
	assert.Contains(t, raw, `"cpf":"27854636419"`)
	assert.Equal(t, 5*time.Minute, mr.TTL("user:1"))
}

func TestRedisUserCache_Set_NilUser(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil user")
}

func TestRedisUserCache_Get_RoundTrip(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	want := testUser()
	require.NoError(t, cache.Set(ctx, want))

	got, err := cache.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisUserCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	got, err := cache.Get(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Get_Expired(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, testUser()))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Get_CorruptedData(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	require.NoError(t, mr.Set("user:1", "not json"))

	got, err := cache.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_Get_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))

	mr.Close()

	got, err := cache.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, got)
}
