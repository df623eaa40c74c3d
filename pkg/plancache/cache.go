package plancache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/transitops/pkg/networkgraph"
)

const keyPrefix = "plan:"

type Planner interface {
	ShortestPath(start string, end string, criteria networkgraph.Criteria) (networkgraph.PathResult, error)
}

// Cache memoises shortest path results in redis. Failed searches are never stored.
type Cache struct {
	Cache   *cache.Cache[string]
	Client  *redis.Client
	Planner Planner
}

func New(client *redis.Client, planner Planner, ttl time.Duration) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &Cache{
		Cache:   cache.New[string](redisStore),
		Client:  client,
		Planner: planner,
	}
}

func Key(criteria networkgraph.Criteria, start string, end string) string {
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, criteria, start, end)
}

func (c *Cache) ShortestPath(ctx context.Context, start string, end string, criteria networkgraph.Criteria) (networkgraph.PathResult, error) {
	cacheItemPath := Key(criteria, start, end)

	cachedObject, err := c.Cache.Get(ctx, cacheItemPath)
	if err == nil {
		var result networkgraph.PathResult
		if err := json.Unmarshal([]byte(cachedObject), &result); err == nil {
			return result, nil
		}

		log.Warn().Str("key", cacheItemPath).Msg("Discarding unreadable cached plan")
	}

	result, err := c.Planner.ShortestPath(start, end, criteria)
	if err != nil {
		return result, err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return result, nil
	}

	if err := c.Cache.Set(ctx, cacheItemPath, string(resultJSON)); err != nil {
		log.Error().Err(err).Str("key", cacheItemPath).Msg("Failed to cache plan")
	}

	return result, nil
}

// Invalidate drops every cached plan, used whenever the network changes.
func (c *Cache) Invalidate(ctx context.Context) (int, error) {
	removed := 0

	iter := c.Client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.Cache.Delete(ctx, iter.Val()); err != nil {
			return removed, err
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}

	log.Debug().Int("plans", removed).Msg("Invalidated cached plans")

	return removed, nil
}
