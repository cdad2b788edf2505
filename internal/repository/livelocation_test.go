package repository

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return client
}

func TestLiveLocationRepository_UpdateAndFind(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewLiveLocationRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, "user-a", 35.6895, 139.6917))
	require.NoError(t, repo.Update(ctx, "user-b", 34.6937, 135.5023))

	t.Run("returns positions for known users only", func(t *testing.T) {
		locations, err := repo.FindByUserIDs(ctx, []string{"user-a", "user-b", "user-missing"})
		require.NoError(t, err)
		require.Len(t, locations, 2)

		byUser := make(map[string][2]float64)
		for _, loc := range locations {
			require.True(t, loc.HasCoordinates())
			byUser[loc.UserID] = [2]float64{*loc.Latitude, *loc.Longitude}
		}

		// GEO sets store positions as 52-bit geohashes, so allow for the
		// sub-meter round trip error.
		assert.InDelta(t, 35.6895, byUser["user-a"][0], 0.0001)
		assert.InDelta(t, 139.6917, byUser["user-a"][1], 0.0001)
		assert.InDelta(t, 34.6937, byUser["user-b"][0], 0.0001)
		assert.InDelta(t, 135.5023, byUser["user-b"][1], 0.0001)
	})

	t.Run("update replaces the previous position", func(t *testing.T) {
		require.NoError(t, repo.Update(ctx, "user-a", 43.0621, 141.3544))

		locations, err := repo.FindByUserIDs(ctx, []string{"user-a"})
		require.NoError(t, err)
		require.Len(t, locations, 1)
		assert.InDelta(t, 43.0621, *locations[0].Latitude, 0.0001)
	})

	t.Run("empty input yields no lookup", func(t *testing.T) {
		locations, err := repo.FindByUserIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, locations)
	})
}

func TestLiveLocationRepository_Remove(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewLiveLocationRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, "user-c", 35.0, 135.0))
	require.NoError(t, repo.Remove(ctx, "user-c"))

	locations, err := repo.FindByUserIDs(ctx, []string{"user-c"})
	require.NoError(t, err)
	assert.Empty(t, locations)

	// Removing an unknown user is a no-op.
	assert.NoError(t, repo.Remove(ctx, "user-unknown"))
}
