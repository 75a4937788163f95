package service

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/model"
	"Toasoan/internal/pkg/util"
	"Toasoan/internal/policy"
	"Toasoan/internal/repository"
	"context"
	"strings"

	"github.com/jinzhu/copier"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error)
	GetCategory(ctx context.Context, idOrSlug string) (*dto.CategoryDTO, error)
	CreateCategory(ctx context.Context, caller policy.Caller, dto *dto.CategoryCreateDTO) (*dto.CategoryDTO, error)
	UpdateCategory(ctx context.Context, caller policy.Caller, id uint64, dto *dto.CategoryUpdateDTO) (*dto.CategoryDTO, error)
	DeleteCategory(ctx context.Context, caller policy.Caller, id uint64) error
}

type CategoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo) CategoryService {
	return &CategoryServiceImpl{categoryRepo: categoryRepo}
}

func (s *CategoryServiceImpl) ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.CategoryDTO, 0, len(categories))
	if err = copier.Copy(&res, &categories); err != nil {
		return nil, err
	}
	return res, nil
}

// GetCategory 纯数字按 ID 查询，否则按 slug
func (s *CategoryServiceImpl) GetCategory(ctx context.Context, idOrSlug string) (*dto.CategoryDTO, error) {
	var (
		category *model.Category
		err      error
	)
	if id, ok := util.ParseUint64(idOrSlug); ok {
		category, err = s.categoryRepo.GetCategory(ctx, id)
	} else {
		category, err = s.categoryRepo.GetCategoryBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return toCategoryDTO(category), nil
}

func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, caller policy.Caller, createDTO *dto.CategoryCreateDTO) (*dto.CategoryDTO, error) {
	if err := policy.Decide(caller, policy.OpCategoryWrite, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	slug, err := categorySlug(createDTO.Slug, createDTO.Name)
	if err != nil {
		return nil, err
	}
	category := &model.Category{
		Name:        strings.TrimSpace(createDTO.Name),
		Slug:        slug,
		Description: strings.TrimSpace(createDTO.Description),
	}
	if err = s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrCategoryExist
		}
		return nil, err
	}
	return toCategoryDTO(category), nil
}

func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, caller policy.Caller, id uint64, updateDTO *dto.CategoryUpdateDTO) (*dto.CategoryDTO, error) {
	category, err := s.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err = policy.Decide(caller, policy.OpCategoryWrite, policy.Resource{}).Err(); err != nil {
		return nil, err
	}

	if updateDTO.Name != nil {
		category.Name = strings.TrimSpace(*updateDTO.Name)
	}
	if updateDTO.Description != nil {
		category.Description = strings.TrimSpace(*updateDTO.Description)
	}
	if updateDTO.Slug != nil {
		if category.Slug, err = categorySlug(*updateDTO.Slug, category.Name); err != nil {
			return nil, err
		}
	}

	if err = s.categoryRepo.UpdateCategory(ctx, category); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrCategoryExist
		}
		return nil, err
	}
	return toCategoryDTO(category), nil
}

// DeleteCategory 仍有文章引用时拒绝删除
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, caller policy.Caller, id uint64) error {
	category, err := s.categoryRepo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	if err = policy.Decide(caller, policy.OpCategoryDelete, policy.Resource{}).Err(); err != nil {
		return err
	}

	affected, err := s.categoryRepo.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		n, err := s.categoryRepo.CountArticles(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrCategoryInUse
		}
	}
	return nil
}

// categorySlug 优先使用传入的 slug，为空时由名称生成
func categorySlug(raw, name string) (string, error) {
	slug := util.Slugify(raw)
	if slug == "" {
		slug = util.Slugify(name)
	}
	if slug == "" {
		return "", ErrCategorySlug
	}
	return slug, nil
}

func toCategoryDTO(c *model.Category) *dto.CategoryDTO {
	d := &dto.CategoryDTO{}
	_ = copier.Copy(d, c)
	return d
}
