package container

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/config"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/devapi"
	infraCache "github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/cache"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Environment: "test"},
		API:    config.APIConfig{BaseURL: "http://localhost:8080/api", Token: "preissued", Timeout: time.Second},
		Upload: config.UploadConfig{MaxBytes: 1 << 20},
		DevAPI: config.DevAPIConfig{
			PublicURL:     "http://localhost:8080",
			AdminUsername: "admin",
			AdminPassword: "pw",
			Store:         "memory",
			Storage:       "memory",
			Cache:         "memory",
			CacheTTL:      time.Minute,
		},
		JWT: config.JWTConfig{Secret: "s", AccessTokenExpiry: 60},
	}
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(testConfig())
	require.NoError(t, err)

	assert.Equal(t, "preissued", c.Session.Token())
	assert.Same(t, c.Session, c.API.Session())
	assert.NotNil(t, c.Uploader)
	assert.NotNil(t, c.Services.Carousels)
	assert.Len(t, c.Services.Content, 8)
	assert.Same(t, c.Queries, c.Services.News.Cache())
}

func TestContainersDoNotShareCaches(t *testing.T) {
	a, err := NewContainer(testConfig())
	require.NoError(t, err)
	b, err := NewContainer(testConfig())
	require.NoError(t, err)
	assert.NotSame(t, a.Queries, b.Queries)
}

func TestNewContainerRejectsBadURL(t *testing.T) {
	cfg := testConfig()
	cfg.API.BaseURL = "not a url"
	_, err := NewContainer(cfg)
	assert.Error(t, err)
}

func TestNewBackendMemory(t *testing.T) {
	b, err := NewBackend(context.Background(), testConfig())
	require.NoError(t, err)
	defer b.Cleanup()

	assert.IsType(t, &devapi.MemoryStore{}, b.Store)
	assert.IsType(t, &infraCache.MemoryCache{}, b.Cache)
	assert.IsType(t, &storage.MemoryStorage{}, b.Storage)
	assert.Nil(t, b.DB)
	assert.NotNil(t, b.Handler)
}
