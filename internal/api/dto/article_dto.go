package dto

import "time"

type ArticleCreateDTO struct {
	CategoryID uint64 `json:"category_id" validate:"required"`
	Title      string `json:"title" validate:"required,max=255"`
	Content    string `json:"content" validate:"required"`
	Excerpt    string `json:"excerpt" validate:"omitempty,max=500"`
	Thumbnail  string `json:"thumbnail" validate:"omitempty,max=500"`
}

// ArticleUpdateDTO 只更新非空字段
type ArticleUpdateDTO struct {
	CategoryID *uint64 `json:"category_id,omitempty"`
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content    *string `json:"content,omitempty" validate:"omitempty,min=1"`
	Excerpt    *string `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Thumbnail  *string `json:"thumbnail,omitempty" validate:"omitempty,max=500"`
}

// ArticleReviewDTO Status 的合法性由生命周期判断，这里不做 oneof 校验
type ArticleReviewDTO struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

type ArticleQueryDTO struct {
	CategoryID uint64 `form:"category_id"`
	Status     string `form:"status"`
	AuthorID   uint64 `form:"author_id"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type ArticleDTO struct {
	ID           uint64        `json:"id"`
	AuthorID     uint64        `json:"author_id"`
	Author       *UserBriefDTO `json:"author,omitempty"`
	CategoryID   uint64        `json:"category_id"`
	CategoryName string        `json:"category_name,omitempty"`
	Status       string        `json:"status"`
	Title        string        `json:"title"`
	Content      string        `json:"content,omitempty"`
	Excerpt      string        `json:"excerpt"`
	Thumbnail    string        `json:"thumbnail"`
	ViewCount    int64         `json:"view_count"`
	PublishedAt  *time.Time    `json:"published_at"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Actions 当前调用方可以执行的操作
	Actions []string `json:"actions,omitempty"`
}
