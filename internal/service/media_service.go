package service

import (
	"Toasoan/internal/api/dto"
	"Toasoan/internal/pkg/consts"
	"Toasoan/internal/pkg/util"
	"Toasoan/internal/policy"
	"bytes"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStore 缩略图存储
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	PublicURL(objectName string) string
}

type MediaService interface {
	UploadThumbnail(ctx context.Context, caller policy.Caller, reader io.Reader, size int64, contentType string) (*dto.MediaUploadDTO, error)
}

type MediaServiceImpl struct {
	store ObjectStore
}

func NewMediaService(store ObjectStore) MediaService {
	return &MediaServiceImpl{store: store}
}

// UploadThumbnail 缩放为最大 1280px 宽的 JPEG 后上传，返回公开访问地址
func (s *MediaServiceImpl) UploadThumbnail(ctx context.Context, caller policy.Caller, reader io.Reader, size int64, contentType string) (*dto.MediaUploadDTO, error) {
	if err := policy.Decide(caller, policy.OpMediaUpload, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		return nil, ErrFileNotSupported
	}
	if size > consts.ThumbnailMaxBytes {
		return nil, ErrFileTooLarge
	}

	data, dim, err := util.ResizeToJPEG(io.LimitReader(reader, consts.ThumbnailMaxBytes+1), consts.ThumbnailMaxWidth)
	if err != nil {
		log.WarnContext(ctx, "thumbnail decode failed", "err", err)
		return nil, ErrFileNotSupported
	}

	objectName := fmt.Sprintf("%s%s/%s.jpg", consts.ThumbnailDir, time.Now().Format("2006/01"), uuid.NewString())
	key, err := s.store.Upload(ctx, objectName, bytes.NewReader(data), int64(len(data)), "image/jpeg")
	if err != nil {
		return nil, err
	}
	return &dto.MediaUploadDTO{
		URL:    s.store.PublicURL(key),
		Width:  dim.X,
		Height: dim.Y,
		Size:   len(data),
	}, nil
}
