package idempotency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisGuard_ClaimOnce(t *testing.T) {
	client := newTestRedis(t)
	guard := NewRedisGuard(client)
	ctx := context.Background()

	won, err := guard.Claim(ctx, "evt_123", time.Hour)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = guard.Claim(ctx, "evt_123", time.Hour)
	require.NoError(t, err)
	assert.False(t, won, "duplicate delivery must not win the claim")
}

func TestRedisGuard_DistinctKeys(t *testing.T) {
	client := newTestRedis(t)
	guard := NewRedisGuard(client)
	ctx := context.Background()

	won, err := guard.Claim(ctx, "evt_a", time.Hour)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = guard.Claim(ctx, "evt_b", time.Hour)
	require.NoError(t, err)
	assert.True(t, won, "different events claim independently")
}

func TestRedisGuard_ReleaseAllowsRetry(t *testing.T) {
	client := newTestRedis(t)
	guard := NewRedisGuard(client)
	ctx := context.Background()

	won, err := guard.Claim(ctx, "evt_retry", time.Hour)
	require.NoError(t, err)
	require.True(t, won)

	require.NoError(t, guard.Release(ctx, "evt_retry"))

	won, err = guard.Claim(ctx, "evt_retry", time.Hour)
	require.NoError(t, err)
	assert.True(t, won, "released claim must be claimable again")
}

func TestRedisGuard_ConcurrentClaimSingleWinner(t *testing.T) {
	client := newTestRedis(t)
	guard := NewRedisGuard(client)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	wins := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := guard.Claim(ctx, "evt_race", time.Hour)
			if err == nil && won {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for range wins {
		winners++
	}
	assert.Equal(t, 1, winners, "exactly one delivery wins a concurrent claim")
}

func TestMemoryGuard_ClaimOnce(t *testing.T) {
	guard := NewMemoryGuard()
	ctx := context.Background()

	won, err := guard.Claim(ctx, "evt_123", time.Hour)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = guard.Claim(ctx, "evt_123", time.Hour)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestMemoryGuard_ClaimExpires(t *testing.T) {
	guard := NewMemoryGuard()
	current := time.Now()
	guard.now = func() time.Time { return current }
	ctx := context.Background()

	won, err := guard.Claim(ctx, "evt_ttl", time.Minute)
	require.NoError(t, err)
	require.True(t, won)

	current = current.Add(2 * time.Minute)

	won, err = guard.Claim(ctx, "evt_ttl", time.Minute)
	require.NoError(t, err)
	assert.True(t, won, "expired claim is claimable again")
}

func TestTokenRevoker_RoundTrip(t *testing.T) {
	client := newTestRedis(t)
	revoker := NewTokenRevoker(client)
	ctx := context.Background()

	revoked, err := revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTokenRevoker_ExpiredTokenNotStored(t *testing.T) {
	client := newTestRedis(t)
	revoker := NewTokenRevoker(client)
	ctx := context.Background()

	require.NoError(t, revoker.Revoke(ctx, "jti-expired", -time.Minute))

	revoked, err := revoker.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}
