package notif

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"linkup/internal/common"
	"linkup/internal/config"
)

// KafkaSink mirrors every fan-out event onto a Kafka topic, keyed by
// recipient so one user's events stay ordered within a partition.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(cfg *config.Config) *KafkaSink {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // fire-and-forget, same contract as the rest of the fan-out
	}
	return &KafkaSink{writer: w}
}

func (s *KafkaSink) Name() string {
	return "kafka_sink"
}

func (s *KafkaSink) Deliver(ctx context.Context, event common.NotificationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
	})
}

func (s *KafkaSink) Close() error {
	if s == nil || s.writer == nil {
		return nil
	}
	return s.writer.Close()
}
