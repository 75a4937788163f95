package handler

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/api/middleware"
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/pkg/util"
	"Toasoan/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	if !bindJSON(c, &registerDTO) {
		return
	}
	user, err := s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.LoginDTO
	if !bindJSON(c, &loginDTO) {
		return
	}
	res, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) Logout(c *gin.Context) {
	if err := s.userSvc.Logout(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	user, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// ListUsers 管理员按角色筛选用户
func (s *UserHandler) ListUsers(c *gin.Context) {
	page := util.AtoiDefault(c.Query("page"), 1)
	pageSize := util.AtoiDefault(c.Query("page_size"), 20)
	res, err := s.userSvc.ListUsers(c.Request.Context(), middleware.CallerFrom(c), c.Query("role"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) ChangeRole(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var roleDTO dto.ChangeRoleDTO
	if !bindJSON(c, &roleDTO) {
		return
	}
	user, err := s.userSvc.ChangeRole(c.Request.Context(), middleware.CallerFrom(c), userID, &roleDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) GetRoleHistory(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	history, err := s.userSvc.GetRoleHistory(c.Request.Context(), middleware.CallerFrom(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, history)
}
