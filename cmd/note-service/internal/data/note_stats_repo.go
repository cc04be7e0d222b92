package data

import (
	"context"
	"errors"
	"time"

	"notehub/cmd/note-service/internal/domain"

	"gorm.io/gorm"
)

// NoteStatsDO 统计数据对象
type NoteStatsDO struct {
	NoteID     int64  `gorm:"primaryKey;column:note_id"`
	AuthorName string `gorm:"column:author_name"`
	Views      int64
	Likes      int64
	Favorites  int64
	Comments   int64
	UpdatedAt  *time.Time
	Version    int64
}

// TableName 指定表名
func (NoteStatsDO) TableName() string {
	return "note_stats"
}

// NoteStatsRepository 统计数据仓储实现
type NoteStatsRepository struct {
	db *gorm.DB
}

// NewNoteStatsRepository 创建统计数据仓储
func NewNoteStatsRepository(db *gorm.DB) domain.NoteStatsRepository {
	return &NoteStatsRepository{
		db: db,
	}
}

// GetByID 获取单条统计记录；记录不存在不是错误，返回 (nil, nil)
func (r *NoteStatsRepository) GetByID(ctx context.Context, noteID int64) (*domain.NoteStats, error) {
	var do NoteStatsDO
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteID).First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&do), nil
}

// GetByIDs 批量获取统计记录，只返回存在的
func (r *NoteStatsRepository) GetByIDs(ctx context.Context, noteIDs []int64) ([]*domain.NoteStats, error) {
	if len(noteIDs) == 0 {
		return nil, nil
	}

	var dos []NoteStatsDO
	if err := r.db.WithContext(ctx).Where("note_id IN ?", noteIDs).Find(&dos).Error; err != nil {
		return nil, err
	}

	stats := make([]*domain.NoteStats, len(dos))
	for i, do := range dos {
		stats[i] = r.toDomain(&do)
	}
	return stats, nil
}

// toDomain DO → 领域对象，作者为空时取占位名
func (r *NoteStatsRepository) toDomain(do *NoteStatsDO) *domain.NoteStats {
	authorName := do.AuthorName
	if authorName == "" {
		authorName = domain.UnknownAuthor
	}
	return &domain.NoteStats{
		NoteID:     do.NoteID,
		AuthorName: authorName,
		Views:      do.Views,
		Likes:      do.Likes,
		Favorites:  do.Favorites,
		Comments:   do.Comments,
		UpdatedAt:  do.UpdatedAt,
		Version:    do.Version,
	}
}
