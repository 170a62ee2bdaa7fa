package service_test

import (
	"context"
	"testing"
	"time"

	"medilink-api/internal/service"
	"medilink-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := service.NewMemorySessionStore(cache.New(time.Hour, time.Hour))

	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, store.Store(ctx, jwt.AccessToken, alice, "a1", time.Minute))
	require.NoError(t, store.Store(ctx, jwt.RefreshToken, alice, "r1", time.Minute))
	require.NoError(t, store.Store(ctx, jwt.AccessToken, bob, "b1", time.Minute))

	exists, err := store.Exists(ctx, jwt.AccessToken, alice, "a1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, jwt.RefreshToken, alice, "a1")
	require.NoError(t, err)
	assert.False(t, exists, "token types are tracked separately")

	require.NoError(t, store.Revoke(ctx, jwt.AccessToken, "a1"))
	exists, _ = store.Exists(ctx, jwt.AccessToken, alice, "a1")
	assert.False(t, exists)
	exists, _ = store.Exists(ctx, jwt.RefreshToken, alice, "r1")
	assert.True(t, exists)

	require.NoError(t, store.RevokeAll(ctx, alice))
	exists, _ = store.Exists(ctx, jwt.RefreshToken, alice, "r1")
	assert.False(t, exists)
	exists, _ = store.Exists(ctx, jwt.AccessToken, bob, "b1")
	assert.True(t, exists)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := service.NewMemorySessionStore(cache.New(time.Hour, time.Hour))
	user := uuid.New()

	require.NoError(t, store.Store(ctx, jwt.AccessToken, user, "short", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	exists, err := store.Exists(ctx, jwt.AccessToken, user, "short")
	require.NoError(t, err)
	assert.False(t, exists)
}
