package biz

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"notehub/cmd/note-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	// 缓存键前缀
	statsKeyPrefix = "stats:"

	// 缓存条目 TTL，每次写入都重置
	statsCacheTTL = 7 * 24 * time.Hour
)

// 缓存 hash 字段名。updatedAt 为空字符串表示没有活动记录；
// last_activity_at 是旧版写入方使用的字段，只在读取时兜底。
const (
	fieldAuthorName     = "authorName"
	fieldViews          = "views"
	fieldLikes          = "likes"
	fieldFavorites      = "favorites"
	fieldComments       = "comments"
	fieldUpdatedAt      = "updatedAt"
	fieldLastActivityAt = "last_activity_at"
	fieldVersion        = "version"
)

// StatsCacheUsecase 统计数据的 cache-aside 访问层
//
// 读路径先查缓存，未命中回源关系库并回填。缓存只是派生的性能层：
// 读取或回填失败都降级处理，正确性只依赖关系库可达。
// 并发回填是幂等的最后写入覆盖，冗余回源可接受。
type StatsCacheUsecase struct {
	cache     domain.StatsCacheStore
	statsRepo domain.NoteStatsRepository
	log       *log.Helper
}

// NewStatsCacheUsecase 创建统计缓存用例
func NewStatsCacheUsecase(
	cache domain.StatsCacheStore,
	statsRepo domain.NoteStatsRepository,
	logger log.Logger,
) *StatsCacheUsecase {
	return &StatsCacheUsecase{
		cache:     cache,
		statsRepo: statsRepo,
		log:       log.NewHelper(logger),
	}
}

// GetMany 批量解析统计记录（批量回源策略，默认入口）
//
// 未命中的ID收集起来后发一次批量查询，库里也没有的补默认记录。
// 只有关系库查询失败才返回错误；缓存故障和脏数据一律降级。
func (uc *StatsCacheUsecase) GetMany(ctx context.Context, noteIDs []int64) (map[int64]*domain.NoteStats, error) {
	result := make(map[int64]*domain.NoteStats, len(noteIDs))
	if len(noteIDs) == 0 {
		return result, nil
	}

	// 第一轮：逐个读缓存，命中的直接解码
	var missed []int64
	for _, id := range noteIDs {
		fields, err := uc.cache.ReadFields(ctx, statsKey(id))
		if err != nil {
			// 缓存故障当作未命中，回源兜底
			uc.log.WithContext(ctx).Warnf("read stats cache failed, fallback to store: noteID=%d err=%v", id, err)
			missed = append(missed, id)
			continue
		}
		if len(fields) == 0 {
			missed = append(missed, id)
			continue
		}
		result[id] = decodeStats(id, fields)
	}

	if len(missed) == 0 {
		return result, nil
	}

	// 第二轮：一次批量回源
	stored, err := uc.statsRepo.GetByIDs(ctx, missed)
	if err != nil {
		return nil, fmt.Errorf("load note stats from store: %w", err)
	}

	byID := make(map[int64]*domain.NoteStats, len(stored))
	for _, s := range stored {
		byID[s.NoteID] = s
	}

	// 库里没有的补默认记录，全部回填缓存
	for _, id := range missed {
		stats, ok := byID[id]
		if !ok {
			stats = domain.DefaultNoteStats(id)
		}
		uc.fillCache(ctx, stats)
		result[id] = stats
	}

	return result, nil
}

// GetManySequential 批量解析统计记录（逐个回源策略）
//
// 每个未命中单独查一次库，适用于ID很少的路径（如用户收藏列表）。
// 语义与 GetMany 一致。
func (uc *StatsCacheUsecase) GetManySequential(ctx context.Context, noteIDs []int64) (map[int64]*domain.NoteStats, error) {
	result := make(map[int64]*domain.NoteStats, len(noteIDs))

	for _, id := range noteIDs {
		fields, err := uc.cache.ReadFields(ctx, statsKey(id))
		if err != nil {
			uc.log.WithContext(ctx).Warnf("read stats cache failed, fallback to store: noteID=%d err=%v", id, err)
			fields = nil
		}
		if len(fields) > 0 {
			result[id] = decodeStats(id, fields)
			continue
		}

		stats, err := uc.statsRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load note stats from store: %w", err)
		}
		if stats == nil {
			stats = domain.DefaultNoteStats(id)
		}
		uc.fillCache(ctx, stats)
		result[id] = stats
	}

	return result, nil
}

// fillCache 回填缓存并重置 TTL，失败只记日志
func (uc *StatsCacheUsecase) fillCache(ctx context.Context, stats *domain.NoteStats) {
	key := statsKey(stats.NoteID)
	if err := uc.cache.WriteFields(ctx, key, encodeStats(stats)); err != nil {
		uc.log.WithContext(ctx).Warnf("write stats cache failed: noteID=%d err=%v", stats.NoteID, err)
		return
	}
	if err := uc.cache.SetExpiry(ctx, key, statsCacheTTL); err != nil {
		uc.log.WithContext(ctx).Warnf("set stats cache expiry failed: noteID=%d err=%v", stats.NoteID, err)
	}
}

// statsKey 缓存键：stats:<noteID>
func statsKey(noteID int64) string {
	return statsKeyPrefix + strconv.FormatInt(noteID, 10)
}

// encodeStats DO → hash 字段
func encodeStats(stats *domain.NoteStats) map[string]string {
	updatedAt := ""
	if stats.UpdatedAt != nil {
		updatedAt = stats.UpdatedAt.Format(time.RFC3339Nano)
	}
	return map[string]string{
		fieldAuthorName: stats.AuthorName,
		fieldViews:      strconv.FormatInt(stats.Views, 10),
		fieldLikes:      strconv.FormatInt(stats.Likes, 10),
		fieldFavorites:  strconv.FormatInt(stats.Favorites, 10),
		fieldComments:   strconv.FormatInt(stats.Comments, 10),
		fieldUpdatedAt:  updatedAt,
		fieldVersion:    strconv.FormatInt(stats.Version, 10),
	}
}

// decodeStats hash 字段 → DO，脏数据一律取类型默认值
func decodeStats(noteID int64, fields map[string]string) *domain.NoteStats {
	stats := &domain.NoteStats{
		NoteID:     noteID,
		AuthorName: domain.UnknownAuthor,
		Views:      parseCountOrDefault(fields[fieldViews]),
		Likes:      parseCountOrDefault(fields[fieldLikes]),
		Favorites:  parseCountOrDefault(fields[fieldFavorites]),
		Comments:   parseCountOrDefault(fields[fieldComments]),
		Version:    parseCountOrDefault(fields[fieldVersion]),
	}
	if name := fields[fieldAuthorName]; name != "" {
		stats.AuthorName = name
	}

	// 时间戳两级兜底：updatedAt → 旧版 last_activity_at
	stats.UpdatedAt = parseTimeOrDefault(fields[fieldUpdatedAt])
	if stats.UpdatedAt == nil {
		stats.UpdatedAt = parseTimeOrDefault(fields[fieldLastActivityAt])
	}

	return stats
}

// parseCountOrDefault 解析计数字段，解析失败归零。
// 这是刻意的静默降级策略：缓存是派生数据，脏字段不值得让整个请求失败。
func parseCountOrDefault(raw string) int64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseTimeOrDefault 解析时间戳字段，空串或格式非法返回 nil
func parseTimeOrDefault(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil
	}
	return &t
}
