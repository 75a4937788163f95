package handler

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/api/middleware"
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/service"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleSvc service.ArticleService
}

func NewArticleHandler(articleSvc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleSvc: articleSvc,
	}
}

func (s *ArticleHandler) ListArticles(c *gin.Context) {
	var query dto.ArticleQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	res, err := s.articleSvc.ListArticles(c.Request.Context(), middleware.CallerFrom(c), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ArticleHandler) ListMyArticles(c *gin.Context) {
	var query dto.ArticleQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	res, err := s.articleSvc.ListMyArticles(c.Request.Context(), middleware.CallerFrom(c), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	article, err := s.articleSvc.GetArticle(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) CreateArticle(c *gin.Context) {
	var createDTO dto.ArticleCreateDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	article, err := s.articleSvc.CreateArticle(c.Request.Context(), middleware.CallerFrom(c), &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	var updateDTO dto.ArticleUpdateDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	article, err := s.articleSvc.UpdateArticle(c.Request.Context(), middleware.CallerFrom(c), id, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	if err := s.articleSvc.DeleteArticle(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ArticleHandler) SubmitArticle(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	article, err := s.articleSvc.SubmitArticle(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

// ReviewArticle body: {"status": "approved|rejected|published", "note": "..."}
func (s *ArticleHandler) ReviewArticle(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	var reviewDTO dto.ArticleReviewDTO
	if !bindJSON(c, &reviewDTO) {
		return
	}
	article, err := s.articleSvc.ReviewArticle(c.Request.Context(), middleware.CallerFrom(c), id, &reviewDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}

func (s *ArticleHandler) PublishArticle(c *gin.Context) {
	id, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	article, err := s.articleSvc.PublishArticle(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article)
}
