package data

import (
	"context"
	"fmt"

	"notehub/cmd/note-service/internal/conf"
	"notehub/pkg/database"
	"notehub/pkg/health"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ProviderSet 数据层提供者集合
var ProviderSet = wire.NewSet(
	NewDB,
	NewRedisClient,
	NewNoteStatsRepository,
	NewFavoriteNoteRepository,
	NewStatsCacheStore,
	NewSearchIndex,
	NewHealthRegistry,
)

// NewDB 创建数据库连接
func NewDB(cfg *conf.Config, logger log.Logger) (*gorm.DB, error) {
	return database.NewDB(&database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
}

// NewRedisClient 创建 Redis 客户端并探活
func NewRedisClient(cfg *conf.Config, logger log.Logger) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logHelper := log.NewHelper(logger)
	logHelper.Infof("redis connected: addr=%s db=%d", cfg.Redis.Addr, cfg.Redis.DB)

	cleanup := func() {
		if err := client.Close(); err != nil {
			logHelper.Errorf("close redis client: %v", err)
		}
	}
	return client, cleanup, nil
}

// NewHealthRegistry 注册核心依赖的探活
func NewHealthRegistry(db *gorm.DB, client *redis.Client) *health.Registry {
	registry := health.NewRegistry()
	registry.Register("postgres", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	registry.Register("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	return registry
}
