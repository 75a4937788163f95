package kafka

import (
	"Toasoan/internal/api/config"
	"Toasoan/internal/event"
	"Toasoan/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
)

// EventProducer 将编辑流程事件写入 Kafka，按文章 ID 分区保证同一文章事件有序
type EventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventProducer(cfg config.KafkaConfig) (*EventProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewEventProducerWith(producer, cfg.EventTopic), nil
}

// NewEventProducerWith 使用已有的 SyncProducer
func NewEventProducerWith(producer sarama.SyncProducer, topic string) *EventProducer {
	return &EventProducer{producer: producer, topic: topic}
}

func (p *EventProducer) Publish(ctx context.Context, e *event.Event) error {
	value, err := event.Encode(e)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(e.ArticleID, 10)),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(e.Type)},
			{Key: []byte(logger.TraceIDKey), Value: []byte(logger.TraceID(ctx))},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.ErrorContext(ctx, "publish event failed", "type", e.Type, "event_id", e.ID, "err", err)
		return err
	}
	log.DebugContext(ctx, "event published", "type", e.Type, "partition", partition, "offset", offset)
	return nil
}

func (p *EventProducer) Close() error {
	return p.producer.Close()
}
