package handler

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/api/middleware"
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
	}
}

// GetComments 文章的评论树，顶层按时间倒序
func (s *CommentHandler) GetComments(c *gin.Context) {
	articleID, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	list, err := s.commentSvc.ListTopLevel(c.Request.Context(), middleware.CallerFrom(c), articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CommentHandler) GetReplies(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	list, err := s.commentSvc.ListReplies(c.Request.Context(), middleware.CallerFrom(c), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CommentHandler) CreateComment(c *gin.Context) {
	articleID, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	var createDTO dto.CommentCreateDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	comment, err := s.commentSvc.CreateComment(c.Request.Context(), middleware.CallerFrom(c), articleID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	var updateDTO dto.CommentUpdateDTO
	if !bindJSON(c, &updateDTO) {
		return
	}
	comment, err := s.commentSvc.UpdateComment(c.Request.Context(), middleware.CallerFrom(c), commentID, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment 连同全部回复一起删除
func (s *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	removed, err := s.commentSvc.DeleteComment(c.Request.Context(), middleware.CallerFrom(c), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.CommentDeleteDTO{Removed: removed})
}

func (s *CommentHandler) LikeComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	res, err := s.commentSvc.ToggleLike(c.Request.Context(), middleware.CallerFrom(c), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
