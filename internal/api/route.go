package api

import (
	"Toasoan/internal/api/middleware"
	"Toasoan/internal/pkg/logger"
	"Toasoan/internal/policy"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions 路由级配置
type RouterOptions struct {
	Service      string
	AllowOrigins []string
}

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	logger.SetupGin(r, opts.Service)
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(opts.AllowOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(group.Callers)
	authOpt := middleware.AuthOptionalMiddleware(group.Callers)
	staff := middleware.CheckRoles(policy.RoleAdmin, policy.RoleEditor)
	admin := middleware.CheckRoles(policy.RoleAdmin)

	apiGroup := r.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.UserHandler.Register)
			authGroup.POST("/login", group.UserHandler.Login)
			authGroup.POST("/logout", auth, group.UserHandler.Logout)
		}

		userGroup := apiGroup.Group("/users")
		userGroup.Use(auth)
		{
			userGroup.GET("/me", group.UserHandler.GetUserInfo)
			userGroup.GET("", admin, group.UserHandler.ListUsers)
			// 针对具体用户的操作由业务层先判断存在再鉴权
			userGroup.PUT("/:user_id/role", group.UserHandler.ChangeRole)
			userGroup.GET("/:user_id/role-history", group.UserHandler.GetRoleHistory)
		}

		categoryGroup := apiGroup.Group("/categories")
		{
			categoryGroup.GET("", group.CategoryHandler.ListCategories)
			categoryGroup.GET("/:category", group.CategoryHandler.GetCategory)
			categoryGroup.POST("", auth, staff, group.CategoryHandler.CreateCategory)
			categoryGroup.PUT("/:category", auth, group.CategoryHandler.UpdateCategory)
			categoryGroup.DELETE("/:category", auth, group.CategoryHandler.DeleteCategory)
		}

		articleGroup := apiGroup.Group("/articles")
		{
			authOptGroup := articleGroup.Group("")
			authOptGroup.Use(authOpt)
			{
				authOptGroup.GET("", group.ArticleHandler.ListArticles)
				authOptGroup.GET("/:article_id", group.ArticleHandler.GetArticle)
				authOptGroup.GET("/:article_id/comments", group.CommentHandler.GetComments)
			}

			authGroup := articleGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.GET("/mine", group.ArticleHandler.ListMyArticles)
				authGroup.POST("", group.ArticleHandler.CreateArticle)
				authGroup.PUT("/:article_id", group.ArticleHandler.UpdateArticle)
				authGroup.DELETE("/:article_id", group.ArticleHandler.DeleteArticle)
				authGroup.POST("/:article_id/submit", group.ArticleHandler.SubmitArticle)
				authGroup.POST("/:article_id/comments", group.CommentHandler.CreateComment)
				authGroup.POST("/:article_id/review", group.ArticleHandler.ReviewArticle)
				authGroup.POST("/:article_id/publish", group.ArticleHandler.PublishArticle)
				authGroup.POST("/:article_id/deletion-requests", group.DeletionRequestHandler.CreateRequest)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("/:comment_id/replies", authOpt, group.CommentHandler.GetReplies)

			authGroup := commentGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.PUT("/:comment_id", group.CommentHandler.UpdateComment)
				authGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
				authGroup.POST("/:comment_id/like", group.CommentHandler.LikeComment)
			}
		}

		requestGroup := apiGroup.Group("/deletion-requests")
		requestGroup.Use(auth)
		{
			requestGroup.GET("/mine", group.DeletionRequestHandler.ListMyRequests)
			requestGroup.GET("", staff, group.DeletionRequestHandler.ListRequests)
			requestGroup.POST("/:request_id/approve", group.DeletionRequestHandler.ApproveRequest)
			requestGroup.POST("/:request_id/reject", group.DeletionRequestHandler.RejectRequest)
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(auth)
		{
			sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read", group.SysBoxHandler.MarkRead)
			sysbox.POST("/read/all", group.SysBoxHandler.MarkAllRead)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(auth)
			mediaGroup.POST("/thumbnail", group.MediaHandler.UploadThumbnail)
		}
	}

	return r
}
