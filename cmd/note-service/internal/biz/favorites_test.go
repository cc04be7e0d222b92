package biz

import (
	"context"
	"errors"
	"testing"

	"notehub/cmd/note-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFavoriteRepo 模拟收藏仓储
type MockFavoriteRepo struct {
	ListNoteIDsByUserFunc func(ctx context.Context, userID int64) ([]int64, error)
	UpsertFunc            func(ctx context.Context, userID, noteID int64) error
	RemoveFunc            func(ctx context.Context, userID, noteID int64) error
	ExistsFunc            func(ctx context.Context, userID, noteID int64) (bool, error)
}

func (m *MockFavoriteRepo) ListNoteIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	if m.ListNoteIDsByUserFunc != nil {
		return m.ListNoteIDsByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockFavoriteRepo) Upsert(ctx context.Context, userID, noteID int64) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, userID, noteID)
	}
	return nil
}

func (m *MockFavoriteRepo) Remove(ctx context.Context, userID, noteID int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, noteID)
	}
	return nil
}

func (m *MockFavoriteRepo) Exists(ctx context.Context, userID, noteID int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, userID, noteID)
	}
	return false, nil
}

// MockSearchIndex 模拟全文索引
type MockSearchIndex struct {
	FetchByIDsFunc func(ctx context.Context, noteIDs []int64) ([]*domain.SearchDocument, error)
	MatchQueryFunc func(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error)
	FetchCalls     int
	MatchCalls     int
}

func (m *MockSearchIndex) FetchByIDs(ctx context.Context, noteIDs []int64) ([]*domain.SearchDocument, error) {
	m.FetchCalls++
	if m.FetchByIDsFunc != nil {
		return m.FetchByIDsFunc(ctx, noteIDs)
	}
	return nil, nil
}

func (m *MockSearchIndex) MatchQuery(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error) {
	m.MatchCalls++
	if m.MatchQueryFunc != nil {
		return m.MatchQueryFunc(ctx, text, weights, limit)
	}
	return nil, nil
}

// newTestStatsCache 缓存空、库里有给定记录的统计层
func newTestStatsCache(stats map[int64]*domain.NoteStats) (*StatsCacheUsecase, *MockNoteStatsRepository) {
	repo := &MockNoteStatsRepository{
		GetByIDsFunc: func(ctx context.Context, noteIDs []int64) ([]*domain.NoteStats, error) {
			var found []*domain.NoteStats
			for _, id := range noteIDs {
				if s, ok := stats[id]; ok {
					found = append(found, s)
				}
			}
			return found, nil
		},
	}
	return NewStatsCacheUsecase(newMemCacheStore(), repo, log.DefaultLogger), repo
}

func TestFavorites_OrderPreservation(t *testing.T) {
	// 收藏顺序 [5,3,9]，索引里只有 5 和 9 → 结果按收藏顺序 [5,9]
	favoriteRepo := &MockFavoriteRepo{
		ListNoteIDsByUserFunc: func(ctx context.Context, userID int64) ([]int64, error) {
			return []int64{5, 3, 9}, nil
		},
	}
	searchIndex := &MockSearchIndex{
		FetchByIDsFunc: func(ctx context.Context, noteIDs []int64) ([]*domain.SearchDocument, error) {
			// 索引返回顺序故意和收藏顺序不一致
			return []*domain.SearchDocument{
				{NoteID: 9, Title: "nine"},
				{NoteID: 5, Title: "five"},
			}, nil
		},
	}
	statsCache, _ := newTestStatsCache(nil)
	uc := NewFavoritesUsecase(favoriteRepo, searchIndex, statsCache, log.DefaultLogger)

	notes, err := uc.GetFavoriteNotes(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, int64(5), notes[0].NoteID)
	assert.Equal(t, int64(9), notes[1].NoteID)
}

func TestFavorites_EmptyShortCircuit(t *testing.T) {
	// 没有收藏时不再调用索引和统计层
	favoriteRepo := &MockFavoriteRepo{
		ListNoteIDsByUserFunc: func(ctx context.Context, userID int64) ([]int64, error) {
			return nil, nil
		},
	}
	searchIndex := &MockSearchIndex{}
	statsCache, statsRepo := newTestStatsCache(nil)
	uc := NewFavoritesUsecase(favoriteRepo, searchIndex, statsCache, log.DefaultLogger)

	notes, err := uc.GetFavoriteNotes(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Equal(t, 0, searchIndex.FetchCalls)
	assert.Equal(t, 0, statsRepo.Calls)
}

func TestFavorites_MergesStatsAndDefaultsSummary(t *testing.T) {
	favoriteRepo := &MockFavoriteRepo{
		ListNoteIDsByUserFunc: func(ctx context.Context, userID int64) ([]int64, error) {
			return []int64{8}, nil
		},
	}
	searchIndex := &MockSearchIndex{
		FetchByIDsFunc: func(ctx context.Context, noteIDs []int64) ([]*domain.SearchDocument, error) {
			// 摘要为空，应退回标题
			return []*domain.SearchDocument{{NoteID: 8, Title: "Go 并发模式"}}, nil
		},
	}
	statsCache, _ := newTestStatsCache(map[int64]*domain.NoteStats{
		8: {NoteID: 8, AuthorName: "frank", Views: 33, Likes: 4, Favorites: 2, Comments: 1},
	})
	uc := NewFavoritesUsecase(favoriteRepo, searchIndex, statsCache, log.DefaultLogger)

	notes, err := uc.GetFavoriteNotes(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, notes, 1)
	note := notes[0]
	assert.Equal(t, "Go 并发模式", note.ContentSummary)
	assert.Equal(t, "frank", note.AuthorName)
	assert.Equal(t, int64(33), note.Views)
	assert.Equal(t, int64(4), note.Likes)
	assert.Equal(t, int64(2), note.Favorites)
	assert.Equal(t, int64(1), note.Comments)
}

func TestFavorites_AllDroppedFromIndex(t *testing.T) {
	// 收藏的笔记全部已从索引消失 → 空结果，不碰统计层
	favoriteRepo := &MockFavoriteRepo{
		ListNoteIDsByUserFunc: func(ctx context.Context, userID int64) ([]int64, error) {
			return []int64{100, 101}, nil
		},
	}
	searchIndex := &MockSearchIndex{
		FetchByIDsFunc: func(ctx context.Context, noteIDs []int64) ([]*domain.SearchDocument, error) {
			return nil, nil
		},
	}
	statsCache, statsRepo := newTestStatsCache(nil)
	uc := NewFavoritesUsecase(favoriteRepo, searchIndex, statsCache, log.DefaultLogger)

	notes, err := uc.GetFavoriteNotes(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Equal(t, 0, statsRepo.Calls)
}

func TestFavorites_UpstreamErrorAborts(t *testing.T) {
	// 任何协作方出错都整体失败，不返回部分列表
	favoriteRepo := &MockFavoriteRepo{
		ListNoteIDsByUserFunc: func(ctx context.Context, userID int64) ([]int64, error) {
			return []int64{1, 2}, nil
		},
	}
	searchIndex := &MockSearchIndex{
		FetchByIDsFunc: func(ctx context.Context, noteIDs []int64) ([]*domain.SearchDocument, error) {
			return nil, errors.New("index unreachable")
		},
	}
	statsCache, _ := newTestStatsCache(nil)
	uc := NewFavoritesUsecase(favoriteRepo, searchIndex, statsCache, log.DefaultLogger)

	notes, err := uc.GetFavoriteNotes(context.Background(), 1)

	assert.Error(t, err)
	assert.Nil(t, notes)
}

func TestFavorites_WriteOps(t *testing.T) {
	var upserted, removed bool
	favoriteRepo := &MockFavoriteRepo{
		UpsertFunc: func(ctx context.Context, userID, noteID int64) error {
			upserted = true
			return nil
		},
		RemoveFunc: func(ctx context.Context, userID, noteID int64) error {
			removed = true
			return nil
		},
		ExistsFunc: func(ctx context.Context, userID, noteID int64) (bool, error) {
			return true, nil
		},
	}
	statsCache, _ := newTestStatsCache(nil)
	uc := NewFavoritesUsecase(favoriteRepo, &MockSearchIndex{}, statsCache, log.DefaultLogger)
	ctx := context.Background()

	t.Run("AddFavorite", func(t *testing.T) {
		assert.NoError(t, uc.AddFavorite(ctx, 1, 2))
		assert.True(t, upserted)
	})

	t.Run("RemoveFavorite", func(t *testing.T) {
		assert.NoError(t, uc.RemoveFavorite(ctx, 1, 2))
		assert.True(t, removed)
	})

	t.Run("IsFavorite", func(t *testing.T) {
		exists, err := uc.IsFavorite(ctx, 1, 2)
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("InvalidIDs", func(t *testing.T) {
		assert.ErrorIs(t, uc.AddFavorite(ctx, 0, 2), domain.ErrInvalidUserID)
		assert.ErrorIs(t, uc.AddFavorite(ctx, 1, 0), domain.ErrInvalidNoteID)
		_, err := uc.GetFavoriteNotes(ctx, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidUserID)
	})
}
