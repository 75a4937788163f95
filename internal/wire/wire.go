package wire

import (
	"Toasoan/internal/api"
	"Toasoan/internal/api/config"
	"Toasoan/internal/api/handler"
	"Toasoan/internal/event"
	"Toasoan/internal/job"
	"Toasoan/internal/pkg/cron"
	"Toasoan/internal/pkg/kafka"
	"Toasoan/internal/pkg/minio"
	"Toasoan/internal/pkg/mongo"
	"Toasoan/internal/pkg/redis"
	"Toasoan/internal/repository"
	"Toasoan/internal/service"
	"context"
	log "log/slog"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	CronMgr     *cron.Manager
	UserService service.UserService

	// KafkaManager 未配置 Kafka 时为 nil，事件在进程内直接写入通知箱
	KafkaManager *kafka.ConsumerManager
	producer     *kafka.EventProducer
}

func BuildApplication(db *gorm.DB, mongoConn *mongoDB.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	articleRepo := repository.NewArticleRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	requestRepo := repository.NewDeletionRequestRepo(db)
	sysBoxRepo := mongo.NewSysBoxRepo(mongoConn)

	sysBoxService := service.NewSysBoxService(sysBoxRepo, userRepo)

	app := &ApplicationContainer{DB: db}
	var publisher event.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewEventProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		kafkaMgr, err := kafka.NewConsumerManager(cfg, sysBoxService)
		if err != nil {
			_ = producer.Close()
			return nil, err
		}
		publisher = producer
		app.producer = producer
		app.KafkaManager = kafkaMgr
	} else {
		log.Warn("kafka brokers not configured, dispatching events in-process")
		publisher = event.NewDirectPublisher(sysBoxService)
	}

	viewCounter := redis.NewArticleViewCounter()

	userService := service.NewUserService(userRepo, publisher)
	categoryService := service.NewCategoryService(categoryRepo)
	articleService := service.NewArticleService(articleRepo, categoryRepo, viewCounter, publisher)
	commentService := service.NewCommentService(commentRepo, articleRepo, userRepo, publisher)
	requestService := service.NewDeletionRequestService(requestRepo, articleRepo, publisher)
	mediaService := service.NewMediaService(minio.NewStore())

	handlers := &api.HandlersGroup{
		UserHandler:            handler.NewUserHandler(userService),
		CategoryHandler:        handler.NewCategoryHandler(categoryService),
		ArticleHandler:         handler.NewArticleHandler(articleService),
		CommentHandler:         handler.NewCommentHandler(commentService),
		DeletionRequestHandler: handler.NewDeletionRequestHandler(requestService),
		SysBoxHandler:          handler.NewSysBoxHandler(sysBoxService),
		MediaHandler:           handler.NewMediaHandler(mediaService),
		Callers:                userService,
	}

	app.Router = api.SetupRouter(handlers, api.RouterOptions{
		Service:      cfg.Logstash.Service,
		AllowOrigins: cfg.Server.AllowOrigins,
	})
	app.CronMgr = cron.NewCronManager(cfg.Jobs, job.NewArticleViewJob(viewCounter, articleRepo))
	app.UserService = userService
	return app, nil
}

// StartConsumers 阻塞到 ctx 结束；未启用 Kafka 时直接等待退出
func (a *ApplicationContainer) StartConsumers(ctx context.Context) error {
	if a.KafkaManager == nil {
		<-ctx.Done()
		return nil
	}
	return a.KafkaManager.Start(ctx)
}

// Close 释放生产者等长连接
func (a *ApplicationContainer) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			log.Error("close kafka producer failed", "err", err)
		}
	}
}
