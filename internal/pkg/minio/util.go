package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

var ErrNotInitialized = errors.New("minio client is not initialized")

// UploadFile 上传文件到主存储桶，返回对象名
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", ErrNotInitialized
	}

	uploadInfo, err := Client.PutObject(ctx, MainBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// GetPublicURL 对象名转公开访问 URL，已是完整 URL 时原样返回
func GetPublicURL(objectName string) string {
	if objectName == "" || strings.HasPrefix(objectName, "http://") || strings.HasPrefix(objectName, "https://") {
		return objectName
	}
	return publicBase + strings.TrimPrefix(objectName, "/")
}

// Store 对外暴露的对象存储，便于业务层替换
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (Store) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return UploadFile(ctx, objectName, reader, size, contentType)
}

func (Store) PublicURL(objectName string) string {
	return GetPublicURL(objectName)
}
