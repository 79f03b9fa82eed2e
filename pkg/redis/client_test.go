package redis

import (
	"context"
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	t.Run("plain url gets the default port", func(t *testing.T) {
		opts, err := options(Config{URL: "redis://cache.internal"})
		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6379", opts.Addr)
		assert.Nil(t, opts.TLSConfig)
		assert.Equal(t, 10, opts.PoolSize)
	})

	t.Run("rediss enables tls", func(t *testing.T) {
		opts, err := options(Config{URL: "rediss://:from-url@cache.internal:6380/2"})
		require.NoError(t, err)
		require.NotNil(t, opts.TLSConfig)
		assert.Equal(t, uint16(tls.VersionTLS12), opts.TLSConfig.MinVersion)
		assert.Equal(t, "from-url", opts.Password)
		assert.Equal(t, 2, opts.DB)
	})

	t.Run("explicit password wins", func(t *testing.T) {
		opts, err := options(Config{URL: "redis://:from-url@cache.internal:6379", Password: "explicit", PoolSize: 4})
		require.NoError(t, err)
		assert.Equal(t, "explicit", opts.Password)
		assert.Equal(t, 4, opts.PoolSize)
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := options(Config{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("bad scheme", func(t *testing.T) {
		_, err := options(Config{URL: "http://cache.internal"})
		assert.Error(t, err)
	})
}

func TestHealthCheckWithoutClient(t *testing.T) {
	assert.Nil(t, Client())
	assert.ErrorIs(t, HealthCheck(context.Background()), ErrNotInitialized)
	assert.NoError(t, Close())
}
