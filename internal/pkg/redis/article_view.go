package redis

import (
	"Toasoan/internal/pkg/consts"
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const articleViewProcessingKey = consts.ArticleViewDirtyKey + ":processing"

// ArticleViewCounter 浏览量先累加在 Redis，由定时任务批量刷回数据库
type ArticleViewCounter struct{}

func NewArticleViewCounter() *ArticleViewCounter {
	return &ArticleViewCounter{}
}

func articleViewKey(id uint64) string {
	return consts.ArticleViewKey + strconv.FormatUint(id, 10)
}

// Incr 浏览量 +1 并标记为待刷新
func (s *ArticleViewCounter) Incr(ctx context.Context, articleID uint64) error {
	pipe := Rdb.TxPipeline()
	pipe.Incr(ctx, articleViewKey(articleID))
	pipe.SAdd(ctx, consts.ArticleViewDirtyKey, articleID)
	_, err := pipe.Exec(ctx)
	return err
}

// Buffered 尚未刷回数据库的浏览量
func (s *ArticleViewCounter) Buffered(ctx context.Context, articleID uint64) (int64, error) {
	n, err := Rdb.Get(ctx, articleViewKey(articleID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Drain 取出全部待刷新的计数交给 flush；flush 失败的计数加回 Redis 等待下一轮
// 上一轮中断残留的 processing 集合会与本轮合并处理
func (s *ArticleViewCounter) Drain(ctx context.Context, flush func(ctx context.Context, articleID uint64, delta int64) error) (int, error) {
	pipe := Rdb.TxPipeline()
	pipe.SUnionStore(ctx, articleViewProcessingKey, articleViewProcessingKey, consts.ArticleViewDirtyKey)
	pipe.Del(ctx, consts.ArticleViewDirtyKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	members, err := Rdb.SMembers(ctx, articleViewProcessingKey).Result()
	if err != nil {
		return 0, err
	}

	flushed := 0
	var firstErr error
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			Rdb.SRem(ctx, articleViewProcessingKey, m)
			continue
		}

		delta, err := Rdb.GetDel(ctx, articleViewKey(id)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if delta > 0 {
			if err = flush(ctx, id, delta); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				restore := Rdb.TxPipeline()
				restore.IncrBy(ctx, articleViewKey(id), delta)
				restore.SAdd(ctx, consts.ArticleViewDirtyKey, id)
				_, _ = restore.Exec(ctx)
			} else {
				flushed++
			}
		}
		Rdb.SRem(ctx, articleViewProcessingKey, m)
	}

	return flushed, firstErr
}
