package data

import (
	"context"
	"fmt"
	"time"

	"notehub/cmd/note-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsCacheStore 基于 Redis hash 的统计缓存存储
//
// 每条笔记统计对应一个 hash，字段级读写，写入是幂等覆盖。
type RedisStatsCacheStore struct {
	client *redis.Client
}

// NewStatsCacheStore 创建统计缓存存储
func NewStatsCacheStore(client *redis.Client) domain.StatsCacheStore {
	return &RedisStatsCacheStore{
		client: client,
	}
}

// ReadFields 读取整个 hash；键不存在时 HGETALL 返回空映射，不是错误
func (s *RedisStatsCacheStore) ReadFields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	return fields, nil
}

// WriteFields 覆盖写入 hash 字段
func (s *RedisStatsCacheStore) WriteFields(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

// SetExpiry 重置过期时间
func (s *RedisStatsCacheStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis expire %s: %w", key, err)
	}
	return nil
}
