package job

import (
	"Toasoan/internal/pkg/consts"
	"Toasoan/internal/pkg/logger"
	"Toasoan/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const articleViewLockTTL = time.Minute

// ViewDrainer 浏览量缓冲
type ViewDrainer interface {
	Drain(ctx context.Context, flush func(ctx context.Context, articleID uint64, delta int64) error) (int, error)
}

// ViewSink 浏览量落库
type ViewSink interface {
	IncrViewCount(ctx context.Context, id uint64, delta int64) error
}

// ArticleViewJob 把 Redis 中累积的浏览量增量刷回数据库，多实例部署时靠分布式锁保证同一时刻只有一个在刷
type ArticleViewJob struct {
	views ViewDrainer
	sink  ViewSink
}

func NewArticleViewJob(views ViewDrainer, sink ViewSink) *ArticleViewJob {
	return &ArticleViewJob{
		views: views,
		sink:  sink,
	}
}

func (s *ArticleViewJob) Run() {
	traceID := "job-article-view-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	ok, err := redis.TryLock(ctx, consts.ArticleViewFlushLock, traceID, articleViewLockTTL, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire article view lock error", "err", err)
		return
	}
	if !ok {
		log.DebugContext(ctx, "article view flush is running elsewhere")
		return
	}
	defer redis.UnLock(ctx, consts.ArticleViewFlushLock, traceID)

	start := time.Now()
	flushed, err := s.views.Drain(ctx, s.sink.IncrViewCount)
	if err != nil {
		log.ErrorContext(ctx, "flush article views error", "flushed", flushed, "err", err)
		return
	}
	if flushed > 0 {
		log.InfoContext(ctx, "flush article views success",
			"article_count", flushed,
			"cost", time.Since(start).String())
	}
}
