package confirm

import (
	"context"
	"fmt"
	"time"

	"github.com/nerimoe/prismbot/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// beginOrConfirmScript atomically consumes a live pending entry or
// records a fresh one. Window expiry is delegated to the key TTL, so a
// stale entry is simply absent. Returns 1 when the call confirmed an
// existing entry, 0 when it started a new window.
const beginOrConfirmScript = `
local key = KEYS[1]        -- prismbot:confirm:{userID}
local requested_at = ARGV[1]
local ttl_ms = ARGV[2]

if redis.call('EXISTS', key) == 1 then
  redis.call('DEL', key)
  return 1
end

redis.call('SET', key, requested_at, 'PX', ttl_ms)
return 0
`

// Redis is the shared Store backend for multi-instance deployments.
// Semantics match Memory: one pending entry per user, confirming calls
// consume their own entry, expiry ends the window.
type Redis struct {
	client *redis.Client
	script *redis.Script
	ttl    time.Duration
	clock  Clock
}

// RedisConfig holds redis confirmation store settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedis creates a redis-backed confirmation store.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{
		client: client,
		script: redis.NewScript(beginOrConfirmScript),
		ttl:    ttl,
		clock:  RealClock{},
	}, nil
}

// SetClock sets the clock used for recorded request times (for testing).
func (r *Redis) SetClock(clock Clock) {
	r.clock = clock
}

// Close closes the underlying redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func confirmKey(userID string) string {
	return "prismbot:confirm:" + userID
}

// BeginOrConfirm implements Store.
func (r *Redis) BeginOrConfirm(ctx context.Context, userID string) (bool, error) {
	now := r.clock.Now()
	res, err := r.script.Run(ctx, r.client,
		[]string{confirmKey(userID)},
		now.UnixMilli(), r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("confirm check-and-set: %w", err)
	}

	if res == 1 {
		metrics.ConfirmationsTotal.WithLabelValues("confirmed").Inc()
		return true, nil
	}
	metrics.ConfirmationsTotal.WithLabelValues("pending").Inc()
	return false, nil
}
