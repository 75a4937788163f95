package model

import "time"

type DeletionRequest struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	ArticleID uint64 `gorm:"not null;index:idx_dr_article" json:"article_id"`
	AuthorID  uint64 `gorm:"not null;index:idx_dr_author" json:"author_id"`
	Reason    string `gorm:"type:varchar(2000);not null" json:"reason"`
	Status    string `gorm:"type:varchar(16);not null;default:pending;index:idx_dr_status" json:"status"`

	// PendingKey 待审核时等于 ArticleID，结束后置空；唯一索引保证每篇文章至多一个待审核申请
	PendingKey *uint64    `gorm:"uniqueIndex:idx_dr_pending_key" json:"-"`
	ReviewerID *uint64    `json:"reviewer_id"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (DeletionRequest) TableName() string {
	return "deletion_requests"
}
