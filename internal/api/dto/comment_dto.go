package dto

import "time"

type CommentCreateDTO struct {
	Content  string  `json:"content" validate:"required,max=2000"`
	ParentID *uint64 `json:"parent_id,omitempty"`
}

type CommentUpdateDTO struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type CommentDTO struct {
	ID        uint64        `json:"id"`
	ArticleID uint64        `json:"article_id"`
	ParentID  *uint64       `json:"parent_id"`
	Author    *UserBriefDTO `json:"author,omitempty"`
	AuthorID  uint64        `json:"author_id"`
	Content   string        `json:"content"`
	LikeCount int64         `json:"like_count"`
	LikedByMe bool          `json:"liked_by_me"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Replies   []*CommentDTO `json:"replies"`
}

type CommentLikeDTO struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type CommentDeleteDTO struct {
	Removed int64 `json:"removed"`
}
