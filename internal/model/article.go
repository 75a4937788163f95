package model

import (
	"time"
)

type Article struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	AuthorID    uint64     `gorm:"not null;index:idx_article_author" json:"author_id"`
	CategoryID  uint64     `gorm:"not null;index:idx_article_category" json:"category_id"`
	Status      string     `gorm:"type:varchar(16);not null;default:draft;index:idx_article_status" json:"status"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Excerpt     string     `gorm:"type:varchar(500)" json:"excerpt"`
	Thumbnail   string     `gorm:"type:varchar(500)" json:"thumbnail"`
	ViewCount   int64      `gorm:"not null;default:0" json:"view_count"`
	PublishedAt *time.Time `gorm:"index:idx_article_published_at" json:"published_at"` // 首次发布时写入，之后不再变化
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联关系
	Author   User     `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID;references:ID" json:"-"`
}

func (Article) TableName() string {
	return "articles"
}
