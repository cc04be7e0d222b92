package domain

import "errors"

var (
	// ErrInvalidUserID 用户ID非法
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidNoteID 笔记ID非法
	ErrInvalidNoteID = errors.New("invalid note id")

	// ErrKeywordRequired 搜索关键词为空
	ErrKeywordRequired = errors.New("search keyword required")
)
