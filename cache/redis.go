package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const RateLimitPrefix = "ratelimit:ip:" // ratelimit:ip:203.0.113.7

type Options struct {
	// URL is either host:port or a redis:// URL.
	URL      string
	Password string
}

// Client wraps the Redis connection used for write throttling.
type Client struct {
	rdb *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, opts Options) (*Client, error) {
	var ro *redis.Options
	if strings.Contains(opts.URL, "://") {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		ro = parsed
	} else {
		ro = &redis.Options{Addr: opts.URL}
	}
	if opts.Password != "" {
		ro.Password = opts.Password
	}
	ro.DialTimeout = 5 * time.Second
	ro.ReadTimeout = 3 * time.Second
	ro.WriteTimeout = 3 * time.Second
	ro.PoolSize = 10
	ro.MinIdleConns = 2

	c := NewFromClient(redis.NewClient(ro))

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return c, nil
}

func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

type RateLimit struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// CheckRateLimit counts one request against key in a fixed window of the
// given length. A counter found without an expiry gets one, so a window can
// never stick.
func (c *Client) CheckRateLimit(ctx context.Context, key string, maxRequests int, window time.Duration) (RateLimit, error) {
	key = RateLimitPrefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return RateLimit{}, err
	}

	count, remaining := incr.Val(), ttl.Val()
	if remaining < 0 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return RateLimit{}, err
		}
		remaining = window
	}

	if count > int64(maxRequests) {
		return RateLimit{Allowed: false, RetryAfter: remaining}, nil
	}
	return RateLimit{Allowed: true, Remaining: maxRequests - int(count)}, nil
}
