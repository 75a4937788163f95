package handler

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/api/middleware"
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/service"

	"github.com/gin-gonic/gin"
)

type DeletionRequestHandler struct {
	requestSvc service.DeletionRequestService
}

func NewDeletionRequestHandler(requestSvc service.DeletionRequestService) *DeletionRequestHandler {
	return &DeletionRequestHandler{
		requestSvc: requestSvc,
	}
}

// CreateRequest 作者为已发布文章申请删除
func (s *DeletionRequestHandler) CreateRequest(c *gin.Context) {
	articleID, ok := pathID(c, "article_id")
	if !ok {
		return
	}
	var createDTO dto.DeletionRequestCreateDTO
	if !bindJSON(c, &createDTO) {
		return
	}
	req, err := s.requestSvc.CreateRequest(c.Request.Context(), middleware.CallerFrom(c), articleID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, req)
}

func (s *DeletionRequestHandler) ApproveRequest(c *gin.Context) {
	requestID, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	req, err := s.requestSvc.ApproveRequest(c.Request.Context(), middleware.CallerFrom(c), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, req)
}

func (s *DeletionRequestHandler) RejectRequest(c *gin.Context) {
	requestID, ok := pathID(c, "request_id")
	if !ok {
		return
	}
	req, err := s.requestSvc.RejectRequest(c.Request.Context(), middleware.CallerFrom(c), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, req)
}

func (s *DeletionRequestHandler) ListRequests(c *gin.Context) {
	var query dto.DeletionRequestQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	res, err := s.requestSvc.ListRequests(c.Request.Context(), middleware.CallerFrom(c), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *DeletionRequestHandler) ListMyRequests(c *gin.Context) {
	var query dto.DeletionRequestQueryDTO
	if !bindQuery(c, &query) {
		return
	}
	res, err := s.requestSvc.ListMyRequests(c.Request.Context(), middleware.CallerFrom(c), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
