package container

import (
	"context"
	"fmt"
	"time"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/config"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/devapi"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/domains/cms"
	infraCache "github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/cache"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/database"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/storage"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/cache"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/jwt"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/logger"
)

// ========================================
// BACKEND CONTAINER
// ========================================

// Backend holds the reference API server dependencies. DB and Redis stay nil
// when the memory implementations are selected.
type Backend struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Cache
	Store      devapi.Store
	Storage    storage.Storage
	JWTManager *jwt.Manager
	Handler    *devapi.Handler
}

// NewBackend connects the configured store, cache and storage, then builds
// the handler. On error everything already opened is closed.
func NewBackend(ctx context.Context, cfg *config.Config) (_ *Backend, err error) {
	log := logger.Component("container")
	b := &Backend{Config: cfg}
	defer func() {
		if err != nil {
			b.Cleanup()
		}
	}()

	// STEP 1: store
	switch cfg.DevAPI.Store {
	case "postgres":
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load database config: %w", err)
		}
		db := database.NewPostgresDB(dbConfig)
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := db.Connect(connectCtx); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		b.DB = db

		store := devapi.NewPostgresStore(db.Pool)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		b.Store = store
	default:
		b.Store = devapi.NewMemoryStore()
	}
	log.Info().Str("store", cfg.DevAPI.Store).Msg("store ready")

	// STEP 2: response cache
	switch cfg.DevAPI.Cache {
	case "redis":
		rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Connect(ctx); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		b.Redis = rc
		b.Cache = infraCache.NewRedisCache(rc.Client, "yaro-wora:")
	default:
		b.Cache = infraCache.NewMemoryCache()
	}
	log.Info().Str("cache", cfg.DevAPI.Cache).Msg("cache ready")

	// STEP 3: object storage
	switch cfg.DevAPI.Storage {
	case "minio":
		s, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio: %w", err)
		}
		b.Storage = s
	default:
		b.Storage = storage.NewMemoryStorage(cfg.DevAPI.PublicURL)
	}
	log.Info().Str("storage", cfg.DevAPI.Storage).Msg("storage ready")

	// STEP 4: handler
	b.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	b.Handler, err = devapi.NewHandler(devapi.Config{
		Registry:       cms.NewRegistry(),
		Store:          b.Store,
		Cache:          b.Cache,
		CacheTTL:       cfg.DevAPI.CacheTTL,
		Storage:        b.Storage,
		Images:         storage.NewImageProcessor(),
		Tokens:         b.JWTManager,
		AdminUsername:  cfg.DevAPI.AdminUsername,
		AdminPassword:  cfg.DevAPI.AdminPassword,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		CORSOrigins:    cfg.DevAPI.CORSOrigins,
		LoginPerMin:    cfg.DevAPI.LoginPerMin,
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Cleanup closes connections. Safe on a partially built backend.
func (b *Backend) Cleanup() {
	log := logger.Component("container")

	if b.Store != nil {
		b.Store.Close()
	}
	if b.DB != nil {
		b.DB.Close()
		log.Info().Msg("database connections closed")
	}
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		} else {
			log.Info().Msg("redis connections closed")
		}
	}
}
