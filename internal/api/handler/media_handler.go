package handler

import (
	"Toasoan/internal/api/middleware"
	"Toasoan/internal/pkg/response"
	"Toasoan/internal/service"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// UploadThumbnail 表单字段 file，返回的 url 直接写入文章 thumbnail
func (s *MediaHandler) UploadThumbnail(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	// 以文件头嗅探的类型为准，不信任客户端声明
	head := make([]byte, 512)
	n, _ := reader.Read(head)
	contentType := http.DetectContentType(head[:n])
	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		response.Error(c, err)
		return
	}

	res, err := s.mediaSvc.UploadThumbnail(c.Request.Context(), middleware.CallerFrom(c), reader, file.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}

	log.InfoContext(c.Request.Context(), "thumbnail uploaded", "url", res.URL, "size", res.Size, "original", file.Filename)
	response.Success(c, res)
}
