package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"railbook/internal/shared/metrics"
	"railbook/pkg/logger"
)

// Publisher hands booking notifications to the delivery pipeline
type Publisher interface {
	Publish(ctx context.Context, notification *Notification) error
	Close() error
}

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	Timeout      time.Duration
	RequiredAcks sarama.RequiredAcks
}

func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "booking-notifications",
		RetryMax:     3,
		Timeout:      10 * time.Second,
		RequiredAcks: sarama.WaitForAll,
	}
}

// NewSaramaConfig is the producer configuration KafkaPublisher expects
func NewSaramaConfig(cfg *ProducerConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = cfg.RequiredAcks
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	return saramaConfig
}

// KafkaPublisher writes notifications to one topic keyed by PNR
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

func NewKafkaPublisher(cfg *ProducerConfig) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, cfg.Topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger.GetDefault()}
}

func (p *KafkaPublisher) Publish(ctx context.Context, notification *Notification) error {
	notification.Status = NotificationStatusQueued

	body, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(notification.PartitionKey()),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_type"), Value: []byte(notification.Type)},
			{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		},
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		metrics.NotificationsPublished.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	metrics.NotificationsPublished.WithLabelValues("queued").Inc()
	p.logger.InfoWithContext(ctx, "Notification published", map[string]interface{}{
		"topic":     p.topic,
		"partition": partition,
		"offset":    offset,
		"type":      string(notification.Type),
		"pnr":       notification.PNR,
	})
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// LogPublisher stands in for Kafka when it is disabled
type LogPublisher struct {
	logger *logger.Logger
}

func NewLogPublisher(l *logger.Logger) *LogPublisher {
	if l == nil {
		l = logger.GetDefault()
	}
	return &LogPublisher{logger: l}
}

func (p *LogPublisher) Publish(ctx context.Context, notification *Notification) error {
	notification.MarkSent()
	metrics.NotificationsPublished.WithLabelValues("logged").Inc()
	p.logger.InfoWithContext(ctx, "Notification logged", map[string]interface{}{
		"type":           string(notification.Type),
		"pnr":            notification.PNR,
		"transaction_id": notification.TransactionID,
		"total_amount":   notification.TotalAmount,
	})
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
