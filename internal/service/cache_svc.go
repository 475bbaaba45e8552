package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// Seen-video entries are long-lived: once a video row exists it is
	// never deleted. The TTL only bounds memory, the DB stays authoritative.
	SeenVideoTTL = 24 * time.Hour

	ChannelCacheTTL = 15 * time.Minute
)

// CacheService is a Redis fast path in front of the video dedup check and
// the channel status lookups served by the HTTP surface.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService connects to Redis. With an empty URL or a failed
// connection, every operation becomes a no-op and the DB carries the load.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// VideoSeen reports whether the video is known to be processed already.
// Only positive answers are cached: a miss means "ask the database", never
// "not processed".
func (c *CacheService) VideoSeen(ctx context.Context, videoID string) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, seenKey(videoID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkVideoSeen records that a video row exists.
func (c *CacheService) MarkVideoSeen(ctx context.Context, videoID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Set(ctx, seenKey(videoID), "1", SeenVideoTTL).Err()
}

// GetChannel retrieves a cached channel status payload. Returns nil on miss.
func (c *CacheService) GetChannel(ctx context.Context, channelID int64) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, channelKey(channelID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetChannel stores a channel status payload.
func (c *CacheService) SetChannel(ctx context.Context, channelID int64, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, channelKey(channelID), b, ChannelCacheTTL).Err()
}

// InvalidateChannel removes a channel from cache after its aggregates change.
func (c *CacheService) InvalidateChannel(ctx context.Context, channelID int64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, channelKey(channelID)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func seenKey(videoID string) string {
	return fmt.Sprintf("seen_video:%s", videoID)
}

func channelKey(id int64) string {
	return fmt.Sprintf("channel:%d", id)
}
