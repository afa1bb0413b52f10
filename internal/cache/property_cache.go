package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const propertyListKeyPrefix = "properties:list:"

// PropertyListKey derives a deterministic cache key for a property list
// request from its scope (public/all) and query parameters.
func PropertyListKey(scope string, query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(scope)
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(strings.Join(values, ","))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return propertyListKeyPrefix + hex.EncodeToString(sum[:])
}

// GetPropertyList returns a cached list payload, or ok=false on a miss.
// Redis errors are logged and treated as misses.
func GetPropertyList(ctx context.Context, rdb *redis.Client, key string) (string, bool) {
	payload, err := rdb.Get(ctx, key).Result()
	if err == nil {
		return payload, true
	}
	if err != redis.Nil {
		log.Printf("Redis GET error for key %s: %v", key, err)
	}
	return "", false
}

// SetPropertyList stores a list payload under the given key with a TTL.
func SetPropertyList(ctx context.Context, rdb *redis.Client, key, payload string, ttl time.Duration) {
	if err := rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Printf("Redis SET error for key %s: %v", key, err)
	}
}

// InvalidatePropertyLists deletes every cached property list. Called after
// any property write so listings never serve stale moderation state.
func InvalidatePropertyLists(ctx context.Context, rdb *redis.Client) error {
	iter := rdb.Scan(ctx, 0, propertyListKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan property cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete property cache keys: %w", err)
	}
	return nil
}
