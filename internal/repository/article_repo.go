package repository

import (
	"Toasoan/internal/model"
	"Toasoan/internal/workflow"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ArticleQuery 列表条件。可见范围为 Statuses 中的任意文章加上 OwnerID 本人的全部文章
type ArticleQuery struct {
	Statuses   []string
	OwnerID    uint64
	Status     string
	CategoryID uint64
	AuthorID   uint64
	Page       int
	PageSize   int
}

type ArticleRepo interface {
	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, id uint64) (*model.Article, error)
	ListArticles(ctx context.Context, q ArticleQuery) ([]*model.Article, int64, error)
	UpdateArticle(ctx context.Context, id uint64, expectStatus string, fields map[string]interface{}) (int64, error)
	TransitStatus(ctx context.Context, id uint64, from, to string, now time.Time) (int64, error)
	DeleteArticle(ctx context.Context, id uint64, expectStatus string) (int64, error)
	IncrViewCount(ctx context.Context, id uint64, delta int64) error
}

type ArticleRepoImpl struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) ArticleRepo {
	return &ArticleRepoImpl{
		db: db,
	}
}

func (s *ArticleRepoImpl) CreateArticle(ctx context.Context, article *model.Article) error {
	return s.db.WithContext(ctx).Create(article).Error
}

func (s *ArticleRepoImpl) GetArticle(ctx context.Context, id uint64) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

func (s *ArticleRepoImpl) ListArticles(ctx context.Context, q ArticleQuery) ([]*model.Article, int64, error) {
	articles := make([]*model.Article, 0)
	if len(q.Statuses) == 0 && q.OwnerID == 0 {
		return articles, 0, nil
	}

	query := s.db.WithContext(ctx).Model(&model.Article{})
	switch {
	case q.OwnerID != 0 && len(q.Statuses) > 0:
		query = query.Where("(status IN ? OR author_id = ?)", q.Statuses, q.OwnerID)
	case q.OwnerID != 0:
		query = query.Where("author_id = ?", q.OwnerID)
	default:
		query = query.Where("status IN ?", q.Statuses)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.CategoryID != 0 {
		query = query.Where("category_id = ?", q.CategoryID)
	}
	if q.AuthorID != 0 {
		query = query.Where("author_id = ?", q.AuthorID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Author").
		Preload("Category").
		Order("published_at DESC").
		Order("id DESC").
		Scopes(Paginate(q.Page, q.PageSize)).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// UpdateArticle 仅当状态仍为 expectStatus 时更新，返回受影响行数
func (s *ArticleRepoImpl) UpdateArticle(ctx context.Context, id uint64, expectStatus string, fields map[string]interface{}) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ? AND status = ?", id, expectStatus).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// TransitStatus 状态迁移；进入 published 时只在 published_at 为空时写入
func (s *ArticleRepoImpl) TransitStatus(ctx context.Context, id uint64, from, to string, now time.Time) (int64, error) {
	fields := map[string]interface{}{"status": to}
	if to == workflow.StatusPublished.String() {
		fields["published_at"] = gorm.Expr("COALESCE(published_at, ?)", now)
	}
	return s.UpdateArticle(ctx, id, from, fields)
}

// DeleteArticle expectStatus 为空表示不限状态；评论、点赞和待审核的删除申请一并删除
func (s *ArticleRepoImpl) DeleteArticle(ctx context.Context, id uint64, expectStatus string) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := deleteArticleTx(tx, id, expectStatus)
		affected = n
		return err
	})
	return affected, err
}

func (s *ArticleRepoImpl) IncrViewCount(ctx context.Context, id uint64, delta int64) error {
	return s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta)).Error
}

func deleteArticleTx(tx *gorm.DB, id uint64, expectStatus string) (int64, error) {
	query := tx.Where("id = ?", id)
	if expectStatus != "" {
		query = query.Where("status = ?", expectStatus)
	}
	result := query.Delete(&model.Article{})
	if result.Error != nil || result.RowsAffected == 0 {
		return result.RowsAffected, result.Error
	}

	commentIDs := tx.Model(&model.Comment{}).Select("id").Where("article_id = ?", id)
	if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&model.CommentLike{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("article_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("article_id = ? AND status = ?", id, string(workflow.DeletionPending)).Delete(&model.DeletionRequest{}).Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}
