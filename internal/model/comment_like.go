package model

import (
	"time"
)

// CommentLike 复合主键保证同一用户对同一评论最多一条
type CommentLike struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CommentID uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_like_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
