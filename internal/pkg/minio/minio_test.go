package minio

import (
	"context"
	"testing"

	"Toasoan/internal/api/config"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	publicBase = buildPublicBase(config.MinIOConfig{
		ExternalEndpoint: "cdn.toasoan.vn",
		ExternalUseSSL:   true,
		MainBucket:       "toasoan",
	})
	t.Cleanup(func() { publicBase = "" })

	url := GetPublicURL("thumbnails/a.jpg")
	assert.Equal(t, "https://cdn.toasoan.vn/toasoan/thumbnails/a.jpg", url)
	assert.Equal(t, "https://elsewhere/x.jpg", GetPublicURL("https://elsewhere/x.jpg"))
	assert.Empty(t, GetPublicURL(""))
}

func TestUploadWithoutClient(t *testing.T) {
	Client = nil
	_, err := UploadFile(context.Background(), "x", nil, 0, "image/jpeg")
	assert.ErrorIs(t, err, ErrNotInitialized)
}
