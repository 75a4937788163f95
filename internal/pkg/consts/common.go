package consts

const (
	MimePrefixImage = "image"
)

const (
	// ThumbnailMaxWidth 缩略图最大宽度（像素）
	ThumbnailMaxWidth = 1280
	// ThumbnailMaxBytes 上传原图大小上限
	ThumbnailMaxBytes = 10 << 20
	ThumbnailDir      = "thumbnails/"
)

const (
	// ExcerptMaxRunes 自动摘要长度
	ExcerptMaxRunes = 200
)
