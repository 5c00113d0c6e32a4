package redis

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func configFor(t *testing.T, addr string) Config {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return Config{Host: host, Port: port, PoolSize: 2}
}

func TestNewClient_Connects(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewClient(ctx, configFor(t, mr.Addr()), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	assert.NoError(t, c.Close())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := configFor(t, mr.Addr())
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := NewClient(ctx, cfg, zaptest.NewLogger(t))
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis at "+cfg.Addr())
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", Config{Host: "localhost", Port: "6379"}.Addr())
	assert.Equal(t, "[::1]:6379", Config{Host: "::1", Port: "6379"}.Addr())
}
