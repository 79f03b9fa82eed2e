// Package redis owns the process-wide client shared by the rate limiters.
// Everything that uses it must cope with Client() returning nil.
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	mu     sync.RWMutex
	client *redis.Client
)

var (
	ErrNotConfigured  = errors.New("redis: REDIS_URL not configured")
	ErrNotInitialized = errors.New("redis: client not initialized")
)

type Config struct {
	// URL is redis://[:password@]host[:port][/db]; rediss:// enables TLS.
	URL string
	// Password overrides the one embedded in URL.
	Password string
	PoolSize int
}

func options(cfg Config) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if opts.TLSConfig != nil {
		opts.TLSConfig.MinVersion = tls.VersionTLS12
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = 2
	return opts, nil
}

// Initialize connects and pings. On failure the package keeps no client and
// callers fall back to their in-memory paths.
func Initialize(ctx context.Context, cfg Config) error {
	opts, err := options(cfg)
	if err != nil {
		return err
	}

	c := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return fmt.Errorf("redis: connection failed: %w", err)
	}

	mu.Lock()
	old := client
	client = c
	mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Client returns the shared client, or nil when Redis is unavailable.
func Client() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

func Close() error {
	mu.Lock()
	c := client
	client = nil
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// HealthCheck pings the server; nil means healthy.
func HealthCheck(ctx context.Context) error {
	c := Client()
	if c == nil {
		return ErrNotInitialized
	}
	return c.Ping(ctx).Err()
}
