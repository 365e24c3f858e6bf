package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const rankingKeyPrefix = "cbt:ranking:exam:"

// RankingCache keeps a short-lived ranking snapshot per exam. Snapshots are
// stored per generation: Invalidate moves the exam to a new generation, so a
// snapshot computed before an invalidation and saved after it is never served.
type RankingCache interface {
	// Get returns the exam's current generation and decodes the snapshot
	// cached for it into dst, reporting whether one was found.
	Get(ctx context.Context, examID uint, dst any) (gen int64, found bool, err error)
	// Set saves a snapshot under the generation observed before it was computed.
	Set(ctx context.Context, examID uint, gen int64, snapshot any) error
	Invalidate(ctx context.Context, examID uint) error
}

func RankingKey(examID uint, gen int64) string {
	return fmt.Sprintf("%s%d:g%d", rankingKeyPrefix, examID, gen)
}

func RankingGenerationKey(examID uint) string {
	return fmt.Sprintf("%s%d:gen", rankingKeyPrefix, examID)
}

type redisRankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRankingCache(client *redis.Client, ttl time.Duration) RankingCache {
	return &redisRankingCache{client: client, ttl: ttl}
}

func (c *redisRankingCache) generation(ctx context.Context, examID uint) (int64, error) {
	gen, err := c.client.Get(ctx, RankingGenerationKey(examID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get ranking generation: %w", err)
	}
	return gen, nil
}

func (c *redisRankingCache) Get(ctx context.Context, examID uint, dst any) (int64, bool, error) {
	gen, err := c.generation(ctx, examID)
	if err != nil {
		return 0, false, err
	}
	raw, err := c.client.Get(ctx, RankingKey(examID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gen, false, nil
	}
	if err != nil {
		return gen, false, fmt.Errorf("get ranking snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return gen, false, fmt.Errorf("decode ranking snapshot: %w", err)
	}
	return gen, true, nil
}

func (c *redisRankingCache) Set(ctx context.Context, examID uint, gen int64, snapshot any) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode ranking snapshot: %w", err)
	}
	if err := c.client.Set(ctx, RankingKey(examID, gen), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("save ranking snapshot: %w", err)
	}
	return nil
}

// Invalidate bumps the generation; older snapshots expire on their own TTL.
func (c *redisRankingCache) Invalidate(ctx context.Context, examID uint) error {
	if err := c.client.Incr(ctx, RankingGenerationKey(examID)).Err(); err != nil {
		return fmt.Errorf("bump ranking generation: %w", err)
	}
	return nil
}

type noopRankingCache struct{}

// NewNoopRankingCache is used when no redis address is configured.
func NewNoopRankingCache() RankingCache { return noopRankingCache{} }

func (noopRankingCache) Get(context.Context, uint, any) (int64, bool, error) { return 0, false, nil }
func (noopRankingCache) Set(context.Context, uint, int64, any) error { return nil }
func (noopRankingCache) Invalidate(context.Context, uint) error { return nil }

// NewRedisClient pings the server before handing the client out.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Int("db", db).Msg("Connected to redis")
	return client, nil
}
