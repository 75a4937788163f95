package kafka

import (
	"Toasoan/internal/api/config"
	"Toasoan/internal/event"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	eventConsumer sarama.ConsumerGroup
	eventHandler  sarama.ConsumerGroupHandler
	topic         string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, handler event.Handler) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	eventConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaEventConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	opts := batchOptions{
		size: cfg.KafkaEventConsumer.BatchSize,
		wait: time.Duration(cfg.KafkaEventConsumer.BatchWait) * time.Millisecond,
	}

	return &ConsumerManager{
		eventConsumer: eventConsumer,
		eventHandler:  NewEventConsumer(handler, opts),
		topic:         cfg.Kafka.EventTopic,
	}, nil
}

// Start 启动消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.eventConsumer.Errors() {
			log.Error("Kafka consumer group error", "err", err)
		}
	}()

	go func() {
		log.Info("Event consumer started", "topic", m.topic)
		for {
			if err := m.eventConsumer.Consume(ctx, []string{m.topic}, m.eventHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.eventConsumer.Close(); err != nil {
		log.Error("Failed to close event consumer", "err", err)
	}
	return nil
}
