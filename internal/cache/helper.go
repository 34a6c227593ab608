package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache TTLs per entity.
const (
	UserTTL   = 5 * time.Minute
	CountsTTL = 1 * time.Minute
)

// UserKey derives the cache key for a user record.
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// ProfileCountsKey derives the cache key for a profile's post/follower/
// following counts.
func ProfileCountsKey(userID uint) string {
	return fmt.Sprintf("profile:%d:counts", userID)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err != nil {
		// Treat any Redis failure as a miss; the source of truth is the DB.
		return false, nil
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on miss it calls fetch (which must populate dest)
// and stores the result best-effort.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser drops the cached record for a user.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateProfileCounts drops the cached profile counts for a user.
func InvalidateProfileCounts(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileCountsKey(userID))
}
