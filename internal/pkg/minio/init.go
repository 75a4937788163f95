package minio

import (
	"Toasoan/internal/api/config"
	"Toasoan/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// MainBucket 缩略图等公开资源所在的存储桶
	MainBucket string

	publicBase string
)

// publicReadPolicy 允许匿名读取对象，缩略图直接通过 URL 访问
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// Init 初始化 MinIO 客户端并确保存储桶存在
func Init(cfg config.MinIOConfig) error {
	endpoint := cfg.InternalEndpoint
	useSSL := cfg.InternalUseSSL
	if endpoint == "" {
		endpoint = cfg.ExternalEndpoint
		useSSL = cfg.ExternalUseSSL
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    useSSL,
		Transport: logger.NewHTTPTransport("minio", http.DefaultTransport),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MainBucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.MainBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.MainBucket, err)
		}
		if err = client.SetBucketPolicy(ctx, cfg.MainBucket, fmt.Sprintf(publicReadPolicy, cfg.MainBucket)); err != nil {
			return fmt.Errorf("failed to set bucket policy: %w", err)
		}
		log.Info("MinIO bucket created", "bucket", cfg.MainBucket)
	}

	Client = client
	MainBucket = cfg.MainBucket
	publicBase = buildPublicBase(cfg)
	return nil
}

func buildPublicBase(cfg config.MinIOConfig) string {
	endpoint := cfg.ExternalEndpoint
	if endpoint == "" {
		endpoint = cfg.InternalEndpoint
	}
	protocol := "http"
	if cfg.ExternalUseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", protocol, endpoint, cfg.MainBucket)
}
