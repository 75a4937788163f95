package kafka

import (
	"Toasoan/internal/event"
	"Toasoan/internal/pkg/logger"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// EventConsumer 消费编辑流程事件并交给通知分发
type EventConsumer struct {
	handler event.Handler
	opts    batchOptions
}

func NewEventConsumer(handler event.Handler, opts batchOptions) *EventConsumer {
	return &EventConsumer{handler: handler, opts: opts}
}

func (s *EventConsumer) Setup(_ sarama.ConsumerGroupSession) error {
	return nil
}

func (s *EventConsumer) Cleanup(_ sarama.ConsumerGroupSession) error {
	return nil
}

func (s *EventConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, s.opts, s.logic)
}

func (s *EventConsumer) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx = logger.WithTraceID(ctx, traceFromHeaders(msg.Headers))

	e, err := event.Decode(msg.Value)
	if err != nil {
		// 无法解析的消息重试也没用，直接跳过
		log.ErrorContext(ctx, "decode event failed", "offset", msg.Offset, "err", err)
		return nil
	}
	return s.handler.Handle(ctx, e)
}

func traceFromHeaders(headers []*sarama.RecordHeader) string {
	for _, h := range headers {
		if h != nil && string(h.Key) == logger.TraceIDKey && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return uuid.NewString()
}
