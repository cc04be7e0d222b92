package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"notehub/cmd/note-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearchUsecase(index *MockSearchIndex, stats map[int64]*domain.NoteStats, fixedNow time.Time) *SearchUsecase {
	statsCache, _ := newTestStatsCache(stats)
	uc := NewSearchUsecase(index, statsCache, log.DefaultLogger)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestSearch_CompositeRankingDeterminism(t *testing.T) {
	// 笔记 2：相关性 2.1 + 100 次浏览 = 102.1
	// 笔记 1：相关性 1.0 + 1 次浏览 = 2.0
	// 无活动时间，新鲜度为 0，得分完全可预测
	index := &MockSearchIndex{
		MatchQueryFunc: func(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error) {
			return []*domain.ScoredDocument{
				{SearchDocument: domain.SearchDocument{NoteID: 1, Title: "go basics"}, Relevance: 1.0},
				{SearchDocument: domain.SearchDocument{NoteID: 2, Title: "go advanced"}, Relevance: 2.1},
			}, nil
		},
	}
	uc := newTestSearchUsecase(index, map[int64]*domain.NoteStats{
		1: {NoteID: 1, Views: 1},
		2: {NoteID: 2, Views: 100},
	}, time.Now())

	notes, err := uc.SearchNotes(context.Background(), "go")

	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, int64(2), notes[0].NoteID)
	assert.Equal(t, int64(1), notes[1].NoteID)
	assert.InDelta(t, 102.1, notes[0].Score, 1e-9)
	assert.InDelta(t, 2.0, notes[1].Score, 1e-9)
}

func TestSearch_StabilityUnderTies(t *testing.T) {
	// 得分完全相同时保持命中顺序
	index := &MockSearchIndex{
		MatchQueryFunc: func(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error) {
			return []*domain.ScoredDocument{
				{SearchDocument: domain.SearchDocument{NoteID: 7, Title: "a"}, Relevance: 1.5},
				{SearchDocument: domain.SearchDocument{NoteID: 8, Title: "b"}, Relevance: 1.5},
				{SearchDocument: domain.SearchDocument{NoteID: 9, Title: "c"}, Relevance: 1.5},
			}, nil
		},
	}
	uc := newTestSearchUsecase(index, nil, time.Now())

	notes, err := uc.SearchNotes(context.Background(), "tie")

	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, int64(7), notes[0].NoteID)
	assert.Equal(t, int64(8), notes[1].NoteID)
	assert.Equal(t, int64(9), notes[2].NoteID)
}

func TestSearch_WeightsAndLimitPassedToIndex(t *testing.T) {
	var gotText string
	var gotWeights map[string]float64
	var gotLimit int
	index := &MockSearchIndex{
		MatchQueryFunc: func(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error) {
			gotText = text
			gotWeights = weights
			gotLimit = limit
			return nil, nil
		},
	}
	uc := newTestSearchUsecase(index, nil, time.Now())

	_, err := uc.SearchNotes(context.Background(), "kafka")

	require.NoError(t, err)
	assert.Equal(t, "kafka", gotText)
	assert.Equal(t, map[string]float64{
		domain.SearchFieldTitle:          2.0,
		domain.SearchFieldContentSummary: 1.0,
	}, gotWeights)
	assert.Equal(t, 30, gotLimit)
}

func TestSearch_EmptyHitsShortCircuit(t *testing.T) {
	index := &MockSearchIndex{
		MatchQueryFunc: func(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error) {
			return nil, nil
		},
	}
	statsRepo := &MockNoteStatsRepository{}
	statsCache := NewStatsCacheUsecase(newMemCacheStore(), statsRepo, log.DefaultLogger)
	uc := NewSearchUsecase(index, statsCache, log.DefaultLogger)

	notes, err := uc.SearchNotes(context.Background(), "nothing")

	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	assert.Equal(t, 0, statsRepo.Calls)
}

func TestSearch_KeywordRequired(t *testing.T) {
	index := &MockSearchIndex{}
	uc := newTestSearchUsecase(index, nil, time.Now())

	_, err := uc.SearchNotes(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrKeywordRequired)
	assert.Equal(t, 0, index.MatchCalls)
}

func TestSearch_IndexErrorPropagates(t *testing.T) {
	index := &MockSearchIndex{
		MatchQueryFunc: func(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error) {
			return nil, errors.New("index corrupt")
		},
	}
	uc := newTestSearchUsecase(index, nil, time.Now())

	notes, err := uc.SearchNotes(context.Background(), "go")

	assert.Error(t, err)
	assert.Nil(t, notes)
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("FreshNote", func(t *testing.T) {
		assert.InDelta(t, 1.0, recencyScore(&now, now), 1e-9)
	})

	t.Run("OneDayOld", func(t *testing.T) {
		d := now.Add(-24 * time.Hour)
		assert.InDelta(t, 0.5, recencyScore(&d, now), 1e-9)
	})

	t.Run("MonotonicDecay", func(t *testing.T) {
		week := now.Add(-7 * 24 * time.Hour)
		month := now.Add(-30 * 24 * time.Hour)
		assert.Greater(t, recencyScore(&week, now), recencyScore(&month, now))
	})

	t.Run("NoActivity", func(t *testing.T) {
		assert.Zero(t, recencyScore(nil, now))
	})
}

func TestSearch_RecencyBreaksCountTie(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	fresh := now.Add(-1 * time.Hour)
	stale := now.Add(-100 * 24 * time.Hour)
	index := &MockSearchIndex{
		MatchQueryFunc: func(ctx context.Context, text string, weights map[string]float64, limit int) ([]*domain.ScoredDocument, error) {
			return []*domain.ScoredDocument{
				{SearchDocument: domain.SearchDocument{NoteID: 1, Title: "stale"}, Relevance: 1.0},
				{SearchDocument: domain.SearchDocument{NoteID: 2, Title: "fresh"}, Relevance: 1.0},
			}, nil
		},
	}
	uc := newTestSearchUsecase(index, map[int64]*domain.NoteStats{
		1: {NoteID: 1, Views: 10, UpdatedAt: &stale},
		2: {NoteID: 2, Views: 10, UpdatedAt: &fresh},
	}, now)

	notes, err := uc.SearchNotes(context.Background(), "go")

	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, int64(2), notes[0].NoteID)
}
