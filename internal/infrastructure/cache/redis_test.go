package cache

import (
	"testing"
	"time"

	"medilink-api/config"
	"medilink-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	assert.False(t, Enabled(config.RedisConfig{}))
	assert.True(t, Enabled(config.RedisConfig{Host: "localhost", Port: "6379"}))
}

func TestNewRedisClientUnreachable(t *testing.T) {
	_, err := NewRedisClient(config.RedisConfig{Host: "127.0.0.1", Port: "1"}, testutil.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	c.Set("k", "v", time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}
