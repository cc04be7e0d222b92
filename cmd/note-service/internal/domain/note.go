package domain

import "time"

// UnknownAuthor 作者缺失时的占位名
const UnknownAuthor = "unknown"

// 搜索索引字段名
const (
	SearchFieldTitle          = "title"
	SearchFieldContentSummary = "content_summary"
)

// NoteStats 笔记互动统计快照
//
// 权威数据在关系库中，Redis 只保存派生副本。任何 noteID 在概念上都有一条
// 记录：缓存和库都没有时返回默认记录（计数全 0，UpdatedAt 为 nil），不报错。
type NoteStats struct {
	NoteID     int64
	AuthorName string
	Views      int64
	Likes      int64
	Favorites  int64
	Comments   int64
	UpdatedAt  *time.Time // nil 表示没有活动记录
	Version    int64      // 预留的乐观锁版本号，当前不参与冲突检测
}

// DefaultNoteStats 构造默认统计记录
func DefaultNoteStats(noteID int64) *NoteStats {
	return &NoteStats{
		NoteID:     noteID,
		AuthorName: UnknownAuthor,
	}
}

// SearchDocument 索引中的笔记文档
type SearchDocument struct {
	NoteID         int64
	Title          string
	ContentSummary string
}

// ScoredDocument match 查询命中，带引擎相关性得分
type ScoredDocument struct {
	SearchDocument
	Relevance float64
}

// RankedNote 聚合结果：索引文档合并统计数据
type RankedNote struct {
	NoteID         int64
	Title          string
	ContentSummary string
	AuthorName     string
	Views          int64
	Likes          int64
	Favorites      int64
	Comments       int64
	UpdatedAt      *time.Time
	Relevance      float64
	Score          float64 // 综合得分，仅搜索路径计算
}

// FavoriteNote 用户收藏关系，(UserID, NoteID) 唯一
type FavoriteNote struct {
	ID          int64
	UserID      int64
	NoteID      int64
	FavoritedAt time.Time
}
