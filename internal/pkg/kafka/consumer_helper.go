package kafka

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	defaultBatchSize = 32
	defaultBatchWait = 1 * time.Second
	maxRetries       = 5
	maxRetryInterval = 5 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// batchOptions 批量拉取参数，零值取默认
type batchOptions struct {
	size int
	wait time.Duration
}

func (o batchOptions) normalize() batchOptions {
	if o.size <= 0 {
		o.size = defaultBatchSize
	}
	if o.wait <= 0 {
		o.wait = defaultBatchWait
	}
	return o
}

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, opts batchOptions, logic LogicFunc) error {
	opts = opts.normalize()
	batch := make([]*sarama.ConsumerMessage, 0, opts.size)
	ticker := time.NewTicker(opts.wait)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= opts.size {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, opts.size)
				ticker.Reset(opts.wait)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, opts.size)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，单条超过重试次数后放弃，避免毒消息阻塞分区
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)

		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			retry(session.Context(), m, logic)
		}(msg)
	}

	wg.Wait()

	if len(messages) > 0 {
		lastMsg := messages[len(messages)-1]
		session.MarkMessage(lastMsg, "")
	}
}

func retry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	retryInterval := 100 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err := logic(ctx, m)
		if err == nil {
			return
		}
		if attempt >= maxRetries {
			log.Error("message dropped after retries",
				"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
			return
		}
		log.Warn("process message error", "attempt", attempt, "err", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryInterval):
		}

		retryInterval *= 2
		if retryInterval > maxRetryInterval {
			retryInterval = maxRetryInterval
		}
	}
}
