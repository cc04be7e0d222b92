package biz

import (
	"context"
	"fmt"
	"sort"
	"time"

	"notehub/cmd/note-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	// 单次搜索最多取的命中数
	searchResultLimit = 30

	// 多字段匹配权重：标题权重是摘要的两倍
	titleBoost          = 2.0
	contentSummaryBoost = 1.0
)

// SearchUsecase 搜索聚合用例
//
// 全文命中合并统计数据后按综合得分排序。计数项不加权也不归一化：
// 高热度笔记可以压过文本相关性，这是产品层面的既定取舍。
type SearchUsecase struct {
	searchIndex domain.SearchIndex
	statsCache  *StatsCacheUsecase
	now         func() time.Time
	log         *log.Helper
}

// NewSearchUsecase 创建搜索用例
func NewSearchUsecase(
	searchIndex domain.SearchIndex,
	statsCache *StatsCacheUsecase,
	logger log.Logger,
) *SearchUsecase {
	return &SearchUsecase{
		searchIndex: searchIndex,
		statsCache:  statsCache,
		now:         time.Now,
		log:         log.NewHelper(logger),
	}
}

// SearchNotes 关键词搜索，返回按综合得分倒序的结果
func (uc *SearchUsecase) SearchNotes(ctx context.Context, keyword string) ([]*domain.RankedNote, error) {
	if keyword == "" {
		return nil, domain.ErrKeywordRequired
	}

	// 1. 加权多字段匹配
	weights := map[string]float64{
		domain.SearchFieldTitle:          titleBoost,
		domain.SearchFieldContentSummary: contentSummaryBoost,
	}
	hits, err := uc.searchIndex.MatchQuery(ctx, keyword, weights, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("search notes: keyword=%q: %w", keyword, err)
	}

	// 2. 零命中直接返回，不碰统计层
	if len(hits) == 0 {
		return []*domain.RankedNote{}, nil
	}

	// 3. 批量解析统计数据（候选可达 30 个，必须走批量回源）
	noteIDs := make([]int64, len(hits))
	for i, hit := range hits {
		noteIDs[i] = hit.NoteID
	}
	statsMap, err := uc.statsCache.GetMany(ctx, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve stats for search hits: keyword=%q: %w", keyword, err)
	}

	// 4. 合并统计并计算综合得分
	now := uc.now()
	notes := make([]*domain.RankedNote, len(hits))
	for i, hit := range hits {
		note := mergeStats(&hit.SearchDocument, statsMap[hit.NoteID])
		note.Relevance = hit.Relevance
		note.Score = compositeScore(note, now)
		notes[i] = note
	}

	// 5. 综合得分倒序，得分相同保持合并顺序
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Score > notes[j].Score
	})

	return notes, nil
}

// compositeScore 综合得分 = 相关性 + 原始计数 + 新鲜度
func compositeScore(note *domain.RankedNote, now time.Time) float64 {
	return note.Relevance +
		float64(note.Views) +
		float64(note.Likes) +
		float64(note.Favorites) +
		float64(note.Comments) +
		recencyScore(note.UpdatedAt, now)
}

// recencyScore 新鲜度衰减：1/(天数+1)，没有活动记录得 0 分
func recencyScore(updatedAt *time.Time, now time.Time) float64 {
	if updatedAt == nil {
		return 0
	}
	ageDays := now.Sub(*updatedAt).Hours() / 24
	return 1.0 / (ageDays + 1.0)
}
