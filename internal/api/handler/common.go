package handler

import (
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/pkg/util"
	"Toasoan/internal/service"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径中的数字 ID，失败时直接写回 400
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, ok := util.ParseUint64(c.Param(name))
	if !ok || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return id, true
}

// bindJSON 绑定并校验请求体
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return false
	}
	if err := util.ValidateDTO(obj); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}
