package biz

import (
	"context"
	"fmt"
	"math"
	"sort"

	"notehub/cmd/note-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// FavoritesUsecase 收藏聚合用例
//
// 组合收藏关系仓储、全文索引和统计缓存，产出按收藏时间排序、
// 带统计数据的收藏列表。任何协作方出错都整体失败，不返回部分列表。
type FavoritesUsecase struct {
	favoriteRepo domain.FavoriteNoteRepository
	searchIndex  domain.SearchIndex
	statsCache   *StatsCacheUsecase
	log          *log.Helper
}

// NewFavoritesUsecase 创建收藏用例
func NewFavoritesUsecase(
	favoriteRepo domain.FavoriteNoteRepository,
	searchIndex domain.SearchIndex,
	statsCache *StatsCacheUsecase,
	logger log.Logger,
) *FavoritesUsecase {
	return &FavoritesUsecase{
		favoriteRepo: favoriteRepo,
		searchIndex:  searchIndex,
		statsCache:   statsCache,
		log:          log.NewHelper(logger),
	}
}

// GetFavoriteNotes 获取用户收藏的笔记列表，最近收藏的在前
func (uc *FavoritesUsecase) GetFavoriteNotes(ctx context.Context, userID int64) ([]*domain.RankedNote, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidUserID
	}

	// 1. 收藏关系：已按收藏时间倒序
	noteIDs, err := uc.favoriteRepo.ListNoteIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorite note ids: userID=%d: %w", userID, err)
	}
	if len(noteIDs) == 0 {
		return []*domain.RankedNote{}, nil
	}

	// 2. 按ID批量取索引文档。收藏关系可能比笔记活得久，
	// 索引里没有的ID直接从结果中消失
	docs, err := uc.searchIndex.FetchByIDs(ctx, noteIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch favorite notes from index: userID=%d: %w", userID, err)
	}
	if len(docs) == 0 {
		return []*domain.RankedNote{}, nil
	}

	// 3. 只为存活文档批量解析统计数据
	survived := make([]int64, len(docs))
	for i, doc := range docs {
		survived[i] = doc.NoteID
	}
	statsMap, err := uc.statsCache.GetMany(ctx, survived)
	if err != nil {
		return nil, fmt.Errorf("resolve stats for favorite notes: userID=%d: %w", userID, err)
	}

	// 4. 合并统计字段
	notes := make([]*domain.RankedNote, len(docs))
	for i, doc := range docs {
		notes[i] = mergeStats(doc, statsMap[doc.NoteID])
	}

	// 5. 恢复收藏时间顺序（索引返回顺序不可靠）
	order := make(map[int64]int, len(noteIDs))
	for i, id := range noteIDs {
		order[id] = i
	}
	sortByFavoriteOrder(notes, order)

	return notes, nil
}

// AddFavorite 收藏笔记，重复收藏刷新收藏时间
func (uc *FavoritesUsecase) AddFavorite(ctx context.Context, userID, noteID int64) error {
	if userID <= 0 {
		return domain.ErrInvalidUserID
	}
	if noteID <= 0 {
		return domain.ErrInvalidNoteID
	}
	if err := uc.favoriteRepo.Upsert(ctx, userID, noteID); err != nil {
		return fmt.Errorf("add favorite: userID=%d noteID=%d: %w", userID, noteID, err)
	}
	return nil
}

// RemoveFavorite 取消收藏
func (uc *FavoritesUsecase) RemoveFavorite(ctx context.Context, userID, noteID int64) error {
	if userID <= 0 {
		return domain.ErrInvalidUserID
	}
	if noteID <= 0 {
		return domain.ErrInvalidNoteID
	}
	if err := uc.favoriteRepo.Remove(ctx, userID, noteID); err != nil {
		return fmt.Errorf("remove favorite: userID=%d noteID=%d: %w", userID, noteID, err)
	}
	return nil
}

// IsFavorite 判断是否已收藏
func (uc *FavoritesUsecase) IsFavorite(ctx context.Context, userID, noteID int64) (bool, error) {
	if userID <= 0 {
		return false, domain.ErrInvalidUserID
	}
	if noteID <= 0 {
		return false, domain.ErrInvalidNoteID
	}
	exists, err := uc.favoriteRepo.Exists(ctx, userID, noteID)
	if err != nil {
		return false, fmt.Errorf("check favorite: userID=%d noteID=%d: %w", userID, noteID, err)
	}
	return exists, nil
}

// mergeStats 文档合并统计数据；摘要为空时退回标题
func mergeStats(doc *domain.SearchDocument, stats *domain.NoteStats) *domain.RankedNote {
	note := &domain.RankedNote{
		NoteID:         doc.NoteID,
		Title:          doc.Title,
		ContentSummary: doc.ContentSummary,
	}
	if note.ContentSummary == "" {
		note.ContentSummary = doc.Title
	}
	if stats != nil {
		note.AuthorName = stats.AuthorName
		note.Views = stats.Views
		note.Likes = stats.Likes
		note.Favorites = stats.Favorites
		note.Comments = stats.Comments
		note.UpdatedAt = stats.UpdatedAt
	}
	return note
}

// sortByFavoriteOrder 按收藏时间位置稳定排序，未知ID排最后
func sortByFavoriteOrder(notes []*domain.RankedNote, order map[int64]int) {
	pos := func(id int64) int {
		if p, ok := order[id]; ok {
			return p
		}
		return math.MaxInt
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return pos(notes[i].NoteID) < pos(notes[j].NoteID)
	})
}
