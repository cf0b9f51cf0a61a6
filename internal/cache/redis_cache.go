package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	blogCountKey  = "ranking:blog:count"
	publishersKey = "ranking:publishers"
)

type redisRankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRankingCache(client *redis.Client, ttl time.Duration) RankingCache {
	return &redisRankingCache{client: client, ttl: ttl}
}

func (c *redisRankingCache) GetBlogPostCount(ctx context.Context) (int64, bool) {
	n, err := c.client.Get(ctx, blogCountKey).Int64()
	if err != nil {
		logMiss(err, blogCountKey)
		return 0, false
	}
	return n, true
}

func (c *redisRankingCache) SetBlogPostCount(ctx context.Context, n int64) {
	if err := c.client.Set(ctx, blogCountKey, n, c.ttl).Err(); err != nil {
		log.Printf("ranking cache: setting %s: %v", blogCountKey, err)
	}
}

// Top publishers are kept in one hash, one field per requested limit, so a
// single DEL clears every variant.
func (c *redisRankingCache) GetTopPublishers(ctx context.Context, limit int) ([]models.PublisherRank, bool) {
	data, err := c.client.HGet(ctx, publishersKey, strconv.Itoa(limit)).Bytes()
	if err != nil {
		logMiss(err, publishersKey)
		return nil, false
	}
	var ranks []models.PublisherRank
	if err := json.Unmarshal(data, &ranks); err != nil {
		log.Printf("ranking cache: decoding %s: %v", publishersKey, err)
		return nil, false
	}
	return ranks, true
}

func (c *redisRankingCache) SetTopPublishers(ctx context.Context, limit int, ranks []models.PublisherRank) {
	data, err := json.Marshal(ranks)
	if err != nil {
		log.Printf("ranking cache: encoding publishers: %v", err)
		return
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, publishersKey, strconv.Itoa(limit), data)
		pipe.ExpireNX(ctx, publishersKey, c.ttl)
		return nil
	})
	if err != nil {
		log.Printf("ranking cache: setting %s: %v", publishersKey, err)
	}
}

func (c *redisRankingCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, blogCountKey, publishersKey).Err(); err != nil {
		log.Printf("ranking cache: invalidating: %v", err)
	}
}

func logMiss(err error, key string) {
	if !errors.Is(err, redis.Nil) {
		log.Printf("ranking cache: reading %s: %v", key, err)
	}
}
