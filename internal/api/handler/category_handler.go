package handler

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/api/middleware"
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categorySvc: categorySvc,
	}
}

func (s *CategoryHandler) ListCategories(c *gin.Context) {
	list, err := s.categorySvc.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// GetCategory 路径参数可以是 ID 或 slug
func (s *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := s.categorySvc.GetCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

func (s *CategoryHandler) CreateCategory(c *gin.Context) {
	var createDTO dto.CategoryCreateDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	category, err := s.categorySvc.CreateCategory(c.Request.Context(), middleware.CallerFrom(c), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

func (s *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	var updateDTO dto.CategoryUpdateDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	category, err := s.categorySvc.UpdateCategory(c.Request.Context(), middleware.CallerFrom(c), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

func (s *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	if err := s.categorySvc.DeleteCategory(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
