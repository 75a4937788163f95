package repository

import (
	"Toasoan/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoryRepo interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	GetCategory(ctx context.Context, id uint64) (*model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id uint64) (int64, error)
	CountArticles(ctx context.Context, id uint64) (int64, error)
}

type CategoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &CategoryRepoImpl{db: db}
}

func (s *CategoryRepoImpl) CreateCategory(ctx context.Context, c *model.Category) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *CategoryRepoImpl) GetCategory(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *CategoryRepoImpl) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *CategoryRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	list := make([]*model.Category, 0)
	err := s.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (s *CategoryRepoImpl) UpdateCategory(ctx context.Context, c *model.Category) error {
	return s.db.WithContext(ctx).Model(c).
		Select("name", "slug", "description").
		Updates(c).Error
}

// DeleteCategory 仍有文章引用时不删除，返回 0
func (s *CategoryRepoImpl) DeleteCategory(ctx context.Context, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND NOT EXISTS (SELECT 1 FROM articles WHERE articles.category_id = ?)", id, id).
		Delete(&model.Category{})
	return result.RowsAffected, result.Error
}

func (s *CategoryRepoImpl) CountArticles(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Article{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}
