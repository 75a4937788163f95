package dto

import "time"

type DeletionRequestCreateDTO struct {
	Reason string `json:"reason" validate:"required"`
}

type DeletionRequestQueryDTO struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type DeletionRequestDTO struct {
	ID         uint64     `json:"id"`
	ArticleID  uint64     `json:"article_id"`
	AuthorID   uint64     `json:"author_id"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ReviewerID *uint64    `json:"reviewer_id"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
