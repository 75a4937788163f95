package util

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// ResizeToJPEG 解码图片（自动按 EXIF 旋转），宽度超过 maxWidth 时等比缩小，统一编码为 JPEG
func ResizeToJPEG(r io.Reader, maxWidth int) ([]byte, image.Point, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode image: %w", err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, image.Point{}, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), img.Bounds().Size(), nil
}
