package response

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/pkg/bizerr"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	UnprocessableEntity = 422
	InternalServerError = 500
)

// kindCodes 业务错误类型到 HTTP 状态码
var kindCodes = map[bizerr.Kind]int{
	bizerr.KindNotFound:        NotFound,
	bizerr.KindForbidden:       Forbidden,
	bizerr.KindUnauthenticated: Unauthorized,
	bizerr.KindInvalidState:    UnprocessableEntity,
	bizerr.KindInvalidInput:    BadRequest,
	bizerr.KindConflict:        Conflict,
}

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装，业务码同时作为 HTTP 状态码
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(businessCode, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// CodeOf 业务错误对应的状态码，非业务错误返回 500
func CodeOf(err error) int {
	if code, ok := kindCodes[bizerr.KindOf(err)]; ok {
		return code
	}
	return InternalServerError
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, "Dữ liệu không hợp lệ")
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, "JSON không hợp lệ")
		return
	}

	var be *bizerr.Error
	if errors.As(err, &be) {
		Fail(c, CodeOf(be), be.Msg)
		return
	}

	log.ErrorContext(c.Request.Context(), "Unhandled error", "path", c.FullPath(), "err", err)
	Fail(c, InternalServerError, "Lỗi hệ thống, vui lòng thử lại sau")
}
