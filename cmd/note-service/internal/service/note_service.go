package service

import (
	"context"
	"time"

	"notehub/cmd/note-service/internal/biz"
	"notehub/cmd/note-service/internal/domain"
)

// NoteService 笔记查询服务层，负责用例编排和 DTO 转换
type NoteService struct {
	favoritesUc *biz.FavoritesUsecase
	searchUc    *biz.SearchUsecase
}

// NewNoteService 创建笔记服务
func NewNoteService(favoritesUc *biz.FavoritesUsecase, searchUc *biz.SearchUsecase) *NoteService {
	return &NoteService{
		favoritesUc: favoritesUc,
		searchUc:    searchUc,
	}
}

// RankedNoteDTO 聚合结果 DTO
type RankedNoteDTO struct {
	NoteID         int64   `json:"note_id"`
	Title          string  `json:"title"`
	ContentSummary string  `json:"content_summary"`
	AuthorName     string  `json:"author_name"`
	ViewCount      int64   `json:"view_count"`
	LikeCount      int64   `json:"like_count"`
	FavoriteCount  int64   `json:"favorite_count"`
	CommentCount   int64   `json:"comment_count"`
	UpdatedAt      *string `json:"updated_at,omitempty"`
	Score          float64 `json:"score,omitempty"`
}

// GetFavoriteNotes 获取收藏列表
func (s *NoteService) GetFavoriteNotes(ctx context.Context, userID int64) ([]*RankedNoteDTO, error) {
	notes, err := s.favoritesUc.GetFavoriteNotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTOs(notes), nil
}

// SearchNotes 关键词搜索
func (s *NoteService) SearchNotes(ctx context.Context, keyword string) ([]*RankedNoteDTO, error) {
	notes, err := s.searchUc.SearchNotes(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return toDTOs(notes), nil
}

// AddFavorite 收藏笔记
func (s *NoteService) AddFavorite(ctx context.Context, userID, noteID int64) error {
	return s.favoritesUc.AddFavorite(ctx, userID, noteID)
}

// RemoveFavorite 取消收藏
func (s *NoteService) RemoveFavorite(ctx context.Context, userID, noteID int64) error {
	return s.favoritesUc.RemoveFavorite(ctx, userID, noteID)
}

// IsFavorite 判断是否已收藏
func (s *NoteService) IsFavorite(ctx context.Context, userID, noteID int64) (bool, error) {
	return s.favoritesUc.IsFavorite(ctx, userID, noteID)
}

// toDTOs 领域对象 → DTO
func toDTOs(notes []*domain.RankedNote) []*RankedNoteDTO {
	dtos := make([]*RankedNoteDTO, len(notes))
	for i, note := range notes {
		dto := &RankedNoteDTO{
			NoteID:         note.NoteID,
			Title:          note.Title,
			ContentSummary: note.ContentSummary,
			AuthorName:     note.AuthorName,
			ViewCount:      note.Views,
			LikeCount:      note.Likes,
			FavoriteCount:  note.Favorites,
			CommentCount:   note.Comments,
			Score:          note.Score,
		}
		if note.UpdatedAt != nil {
			formatted := note.UpdatedAt.Format(time.RFC3339)
			dto.UpdatedAt = &formatted
		}
		dtos[i] = dto
	}
	return dtos
}
