package repository

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"wanderguild/internal/model"
)

// liveLocationKey is the Redis GEO set holding the latest reported position
// of every user, keyed by user ID.
const liveLocationKey = "live:locations"

// ILiveLocationRepository defines access to the most recently reported user
// positions. Positions are volatile by nature, so they live in Redis rather
// than Postgres; users who never reported a position simply have no entry.
type ILiveLocationRepository interface {
	// FindByUserIDs returns the known positions for the given users. Users
	// with no position on record are omitted from the result.
	FindByUserIDs(ctx context.Context, userIDs []string) ([]model.LiveLocation, error)

	// Update stores the user's latest position, replacing any previous one.
	Update(ctx context.Context, userID string, lat, lng float64) error

	// Remove forgets the user's position, e.g. when location sharing is
	// turned off.
	Remove(ctx context.Context, userID string) error
}

// LiveLocationRepository implements ILiveLocationRepository over Redis
type LiveLocationRepository struct {
	client *redis.Client
}

// NewLiveLocationRepository creates a new ILiveLocationRepository instance
func NewLiveLocationRepository(client *redis.Client) ILiveLocationRepository {
	return &LiveLocationRepository{client: client}
}

// FindByUserIDs looks up the GEO set positions for the given users
func (r *LiveLocationRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]model.LiveLocation, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	positions, err := r.client.GeoPos(ctx, liveLocationKey, userIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read live locations: %w", err)
	}

	locations := make([]model.LiveLocation, 0, len(userIDs))
	for i, pos := range positions {
		if pos == nil {
			continue
		}
		lat, lng := pos.Latitude, pos.Longitude
		locations = append(locations, model.LiveLocation{
			UserID:    userIDs[i],
			Latitude:  &lat,
			Longitude: &lng,
		})
	}
	return locations, nil
}

// Update stores the user's position in the GEO set
func (r *LiveLocationRepository) Update(ctx context.Context, userID string, lat, lng float64) error {
	err := r.client.GeoAdd(ctx, liveLocationKey, &redis.GeoLocation{
		Name:      userID,
		Latitude:  lat,
		Longitude: lng,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to update live location for user %s: %w", userID, err)
	}
	return nil
}

// Remove deletes the user's position from the GEO set
func (r *LiveLocationRepository) Remove(ctx context.Context, userID string) error {
	err := r.client.ZRem(ctx, liveLocationKey, userID).Err()
	if err != nil {
		return fmt.Errorf("failed to remove live location for user %s: %w", userID, err)
	}
	return nil
}
