package data

import (
	"context"
	"time"

	"notehub/cmd/note-service/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserFavoriteNoteDO 收藏关系数据对象
type UserFavoriteNoteDO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      int64     `gorm:"column:user_id;uniqueIndex:idx_user_note"`
	NoteID      int64     `gorm:"column:note_id;uniqueIndex:idx_user_note"`
	FavoritedAt time.Time `gorm:"column:favorited_at;index"`
}

// TableName 指定表名
func (UserFavoriteNoteDO) TableName() string {
	return "user_favorite_notes"
}

// FavoriteNoteRepository 收藏关系仓储实现
type FavoriteNoteRepository struct {
	db *gorm.DB
}

// NewFavoriteNoteRepository 创建收藏关系仓储
func NewFavoriteNoteRepository(db *gorm.DB) domain.FavoriteNoteRepository {
	return &FavoriteNoteRepository{
		db: db,
	}
}

// ListNoteIDsByUser 查询用户收藏的笔记ID，最近收藏的在前
func (r *FavoriteNoteRepository) ListNoteIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	var noteIDs []int64
	if err := r.db.WithContext(ctx).
		Model(&UserFavoriteNoteDO{}).
		Where("user_id = ?", userID).
		Order("favorited_at DESC").
		Pluck("note_id", &noteIDs).Error; err != nil {
		return nil, err
	}
	return noteIDs, nil
}

// Upsert 插入收藏关系，已存在时刷新收藏时间
func (r *FavoriteNoteRepository) Upsert(ctx context.Context, userID, noteID int64) error {
	do := &UserFavoriteNoteDO{
		UserID:      userID,
		NoteID:      noteID,
		FavoritedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "note_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"favorited_at": do.FavoritedAt}),
		}).
		Create(do).Error
}

// Remove 删除收藏关系
func (r *FavoriteNoteRepository) Remove(ctx context.Context, userID, noteID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND note_id = ?", userID, noteID).
		Delete(&UserFavoriteNoteDO{}).Error
}

// Exists 判断是否已收藏
func (r *FavoriteNoteRepository) Exists(ctx context.Context, userID, noteID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&UserFavoriteNoteDO{}).
		Where("user_id = ? AND note_id = ?", userID, noteID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
