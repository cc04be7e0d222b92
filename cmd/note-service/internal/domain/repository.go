package domain

import (
	"context"
	"time"
)

// NoteStatsRepository 统计数据仓储接口（权威数据源）
type NoteStatsRepository interface {
	// GetByID 获取单条统计记录，不存在时返回 (nil, nil)
	GetByID(ctx context.Context, noteID int64) (*NoteStats, error)

	// GetByIDs 批量获取统计记录，只返回存在的记录，缺失的由调用方补默认值
	GetByIDs(ctx context.Context, noteIDs []int64) ([]*NoteStats, error)
}

// FavoriteNoteRepository 收藏关系仓储接口
type FavoriteNoteRepository interface {
	// ListNoteIDsByUser 查询用户收藏的笔记ID，按收藏时间倒序
	ListNoteIDsByUser(ctx context.Context, userID int64) ([]int64, error)

	// Upsert 新增收藏，重复收藏时刷新收藏时间
	Upsert(ctx context.Context, userID, noteID int64) error

	// Remove 取消收藏
	Remove(ctx context.Context, userID, noteID int64) error

	// Exists 判断是否已收藏
	Exists(ctx context.Context, userID, noteID int64) (bool, error)
}

// SearchIndex 全文索引接口
type SearchIndex interface {
	// FetchByIDs 按ID集合取文档，返回顺序不保证与入参一致，缺失的ID静默丢弃
	FetchByIDs(ctx context.Context, noteIDs []int64) ([]*SearchDocument, error)

	// MatchQuery 多字段加权匹配，weights 为字段名到权重的映射，
	// 结果按引擎相关性倒序，最多 limit 条
	MatchQuery(ctx context.Context, text string, weights map[string]float64, limit int) ([]*ScoredDocument, error)
}

// StatsCacheStore 统计缓存存储接口（字段级，hash 语义）
type StatsCacheStore interface {
	// ReadFields 读取整个缓存条目，键不存在时返回空映射而非错误
	ReadFields(ctx context.Context, key string) (map[string]string, error)

	// WriteFields 覆盖写入字段，幂等
	WriteFields(ctx context.Context, key string, fields map[string]string) error

	// SetExpiry 重置过期时间
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error
}
