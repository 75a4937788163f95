package api

import (
	"Toasoan/internal/api/handler"
	"Toasoan/internal/api/middleware"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler            *handler.UserHandler
	CategoryHandler        *handler.CategoryHandler
	ArticleHandler         *handler.ArticleHandler
	CommentHandler         *handler.CommentHandler
	DeletionRequestHandler *handler.DeletionRequestHandler
	SysBoxHandler          *handler.SysBoxHandler
	MediaHandler           *handler.MediaHandler

	// Callers 鉴权中间件按用户 ID 取当前角色
	Callers middleware.CallerResolver
}
