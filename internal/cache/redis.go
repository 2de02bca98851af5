package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces the artifact keys in Redis.
const defaultKeyPrefix = "transcripts:"

// opTimeout bounds every Redis round trip; the Cache interface carries no context.
const opTimeout = 2 * time.Second

func init() {
	Register("redis", newRedisCache)
}

// redisCache stores entries in Redis/Valkey so that several service replicas can
// serve each other's download links.
//
// Requires Redis 7.4+ or Valkey 8+ for per-field hash TTL (HPEXPIRE).
//
// Two keys are used whatever the number of entries:
//
//   - {prefix}data: a hash of key -> value, each field expiring on its own.
//   - {prefix}lru:  a sorted set of key -> last access time in µs, used to bound the size.
//
// Each operation touching both keys runs as one Lua script.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  Logger
	dataKey string
	lruKey  string
}

// getAndTouch returns the value and refreshes its recency.
// KEYS[1] = data hash, KEYS[2] = LRU set; ARGV[1] = µs timestamp, ARGV[2] = member
var getAndTouch = redis.NewScript(`
local val = redis.call('HGET', KEYS[1], ARGV[2])
if val then
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
end
return val
`)

// setAndEvict stores the value with its TTL, records its recency and pops the
// least recently used members while over capacity. Members whose field already
// expired are popped the same way. Returns the evicted members.
// ARGV[1] = value, ARGV[2] = µs timestamp, ARGV[3] = member, ARGV[4] = max size, ARGV[5] = TTL ms
var setAndEvict = redis.NewScript(`
local member  = ARGV[3]
local maxSize = tonumber(ARGV[4])
local ttlMs   = tonumber(ARGV[5])

redis.call('HSET', KEYS[1], member, ARGV[1])
if ttlMs > 0 then
    redis.call('HPEXPIRE', KEYS[1], ttlMs, 'FIELDS', 1, member)
end
redis.call('ZADD', KEYS[2], ARGV[2], member)

local size = redis.call('ZCARD', KEYS[2])
local evicted = {}
while maxSize > 0 and size > maxSize do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    redis.call('HDEL', KEYS[1], oldest[1])
    table.insert(evicted, oldest[1])
    size = size - 1
end

return evicted
`)

// removeMember deletes the field and its recency entry. Returns 1 if the field existed.
// ARGV[1] = member
var removeMember = redis.NewScript(`
local removed = redis.call('HDEL', KEYS[1], ARGV[1])
redis.call('ZREM', KEYS[2], ARGV[1])
return removed
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	if cfg.RedisAddress == "" {
		return nil, fmt.Errorf("redis cache requires an address")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisCache{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
		dataKey: prefix + "data",
		lruKey:  prefix + "lru",
	}, nil
}

func (r *redisCache) keys() []string {
	return []string{r.dataKey, r.lruKey}
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	result, err := getAndTouch.Run(ctx, r.client, r.keys(), now, key).Text()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logError("redis cache Get failed", err)
		}
		return nil, false
	}
	return []byte(result), true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	evicted, err := setAndEvict.Run(ctx, r.client, r.keys(),
		value,
		strconv.FormatInt(time.Now().UnixMicro(), 10),
		key,
		strconv.Itoa(r.maxSize),
		strconv.FormatInt(r.ttl.Milliseconds(), 10),
	).StringSlice()
	if err != nil {
		r.logError("redis cache Set failed", err)
		return
	}

	if r.onEvict != nil {
		// Values are not fetched back for evicted members
		for _, evictedKey := range evicted {
			r.onEvict(evictedKey, nil)
		}
	}
}

func (r *redisCache) Remove(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	n, err := removeMember.Run(ctx, r.client, r.keys(), key).Int()
	if err != nil {
		r.logError("redis cache Remove failed", err)
		return false
	}
	return n > 0
}

func (r *redisCache) Contains(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	ok, err := r.client.HExists(ctx, r.dataKey, key).Result()
	if err != nil {
		r.logError("redis cache Contains failed", err)
		return false
	}
	return ok
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	n, err := r.client.HLen(ctx, r.dataKey).Result()
	if err != nil {
		r.logError("redis cache Len failed", err)
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
