package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
)

// memCacheRepo is an in-memory CacheRepository used across service tests.
type memCacheRepo struct {
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: make(map[string][]byte)}
}

func (m *memCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func newTestCache(repo CacheRepository) *CacheService {
	return NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
}

func newDisabledCache() *CacheService {
	return NewCacheService(nil, nil, 0, zap.NewNop(), false)
}

func TestCacheServiceDisabled(t *testing.T) {
	cache := newDisabledCache()
	assert.False(t, cache.Enabled())

	var out string
	hit, err := cache.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(context.Background(), "k", "v", 0))
	require.NoError(t, cache.Invalidate(context.Background(), "k"))
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemCacheRepo()
	cache := newTestCache(repo)

	var out string
	hit, err := cache.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(context.Background(), "k", "v", 0))

	hit, err = cache.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", out)
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := newMemCacheRepo()
	cache := newTestCache(repo)

	require.NoError(t, cache.Set(context.Background(), "dashboard:u1", "v", 0))
	require.NoError(t, cache.Invalidate(context.Background(), "dashboard:u1"))

	var out string
	hit, err := cache.Get(context.Background(), "dashboard:u1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
