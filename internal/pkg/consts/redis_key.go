package consts

const (
	ArticleViewKey      = "article:view:"
	ArticleViewDirtyKey = "article:view:dirty"
	TokenBlacklistKey   = "auth:blacklist:"
)

const (
	ArticleViewFlushLock = "lock:article:view:flush"
)
