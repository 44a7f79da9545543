package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/waslahq/wasla/internal/clock"
)

const slidingWindowScript = `
local window = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", KEYS[1], 0, now - window)
local count = redis.call("ZCARD", KEYS[1])

if count < limit then
  redis.call("ZADD", KEYS[1], now, member)
  redis.call("PEXPIRE", KEYS[1], window)
  return {1, limit - count - 1, 0}
end

local oldest = redis.call("ZRANGE", KEYS[1], 0, 0, "WITHSCORES")
local retry = 0
if oldest[2] then
  retry = (tonumber(oldest[2]) + window) - now
end
return {0, 0, retry}
`

// RedisStore shares the sliding window across instances using one
// sorted set per key.
type RedisStore struct {
	client *redis.Client
	script *redis.Script
	clock  clock.Clock
	prefix string
}

func NewRedisStore(client *redis.Client, clk clock.Clock) *RedisStore {
	if client == nil {
		return nil
	}
	return &RedisStore{
		client: client,
		script: redis.NewScript(slidingWindowScript),
		clock:  clk,
		prefix: "throttle:",
	}
}

func (s *RedisStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (*Decision, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("throttle store not configured")
	}
	if key == "" {
		return nil, errors.New("throttle key is empty")
	}

	now := s.clock.Now().UnixMilli()
	res, err := s.script.Run(
		ctx,
		s.client,
		[]string{s.prefix + key},
		window.Milliseconds(),
		limit,
		now,
		uuid.NewString(),
	).Slice()
	if err != nil {
		return nil, err
	}
	if len(res) < 3 {
		return nil, errors.New("invalid throttle script response")
	}

	allowed := castToInt(res[0]) == 1
	remaining := int(castToInt(res[1]))
	retryMillis := castToInt(res[2])
	if retryMillis < 0 {
		retryMillis = 0
	}

	return &Decision{
		Allowed:    allowed,
		Remaining:  remaining,
		RetryAfter: time.Duration(retryMillis) * time.Millisecond,
	}, nil
}

func castToInt(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}
