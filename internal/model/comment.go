package model

import (
	"time"
)

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	ArticleID uint64    `gorm:"not null;index:idx_comment_article" json:"article_id"`
	AuthorID  uint64    `gorm:"not null" json:"author_id"`
	ParentID  *uint64   `gorm:"index:idx_comment_parent" json:"parent_id"` // nil 表示一级评论
	Content   string    `gorm:"type:varchar(2000);not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentLikeCount 按评论聚合的点赞数
type CommentLikeCount struct {
	CommentID uint64
	Count     int64
}
