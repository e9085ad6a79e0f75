package featureflag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrNotConfigured = errors.New("feature flags are not configured")
	ErrNotFound      = errors.New("feature not found")
	ErrUpstream      = errors.New("feature flag service unavailable")
)

// Cache stores raw flag payloads between fetches.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache returns nil when rdb is nil so the client fetches every time.
func NewRedisCache(rdb *redis.Client) Cache {
	if rdb == nil {
		return nil
	}
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

type Options struct {
	APIHost   string
	ClientKey string
	CacheTTL  time.Duration
}

type Client struct {
	http  *http.Client
	opts  Options
	cache Cache
	log   zerolog.Logger
}

func NewClient(opts Options, cache Cache, log zerolog.Logger) *Client {
	opts.APIHost = strings.TrimRight(opts.APIHost, "/")
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	return &Client{
		http:  &http.Client{Timeout: 10 * time.Second},
		opts:  opts,
		cache: cache,
		log:   log.With().Str("component", "featureflag").Logger(),
	}
}

func (c *Client) cacheKey() string {
	return "featureflags:" + c.opts.ClientKey
}

// List returns all flags, from cache when fresh.
func (c *Client) List(ctx context.Context) ([]Feature, error) {
	if c.opts.ClientKey == "" {
		return nil, ErrNotConfigured
	}

	if c.cache != nil {
		raw, ok, err := c.cache.Get(ctx, c.cacheKey())
		if err != nil {
			c.log.Warn().Err(err).Msg("feature flag cache read failed")
		}
		if ok {
			if features, err := Decode(raw); err == nil {
				return features, nil
			}
		}
	}

	raw, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	features, err := Decode(raw)
	if err != nil {
		c.log.Error().Err(err).Int("bytes", len(raw)).Msg("feature flag payload rejected")
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, c.cacheKey(), raw, c.opts.CacheTTL); err != nil {
			c.log.Warn().Err(err).Msg("feature flag cache write failed")
		}
	}
	return features, nil
}

// Get returns a single flag by key.
func (c *Client) Get(ctx context.Context, key string) (*Feature, error) {
	features, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range features {
		if features[i].Key == key {
			return &features[i], nil
		}
	}
	return nil, ErrNotFound
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/features/%s", c.opts.APIHost, url.PathEscape(c.opts.ClientKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Msg("feature flag fetch failed")
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return body, nil
}
