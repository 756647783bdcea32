package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"railbook/pkg/logger"
)

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	Heartbeat            time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "railbook-notifier",
		Topics:               []string{"booking-notifications"},
		SessionTimeout:       30 * time.Second,
		Heartbeat:            3 * time.Second,
		OffsetOldest:         false,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// Consumer reads booking notifications from Kafka and hands them to a Sender
type Consumer struct {
	group   sarama.ConsumerGroup
	config  *ConsumerConfig
	handler *groupHandler
	logger  *logger.Logger
}

func NewConsumer(cfg *ConsumerConfig, sender Sender) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = cfg.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if cfg.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		group:   group,
		config:  cfg,
		handler: newGroupHandler(sender, cfg.MaxRetries, cfg.RetryBackoffDuration),
		logger:  logger.GetDefault(),
	}, nil
}

// Run consumes with the given number of workers until ctx is done
func (c *Consumer) Run(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}

	go func() {
		for err := range c.group.Errors() {
			c.logger.ErrorWithContext(ctx, "Consumer group error", err, nil)
		}
	}()

	c.logger.Info("Starting notification consumers", "workers", workers, "topics", c.config.Topics)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for ctx.Err() == nil {
				if err := c.group.Consume(ctx, c.config.Topics, c.handler); err != nil {
					if errors.Is(err, sarama.ErrClosedConsumerGroup) {
						return
					}
					c.logger.ErrorWithContext(ctx, "Consume failed", err, map[string]interface{}{"worker": workerID})
					select {
					case <-time.After(time.Second):
					case <-ctx.Done():
					}
				}
			}
		}(i)
	}
	wg.Wait()
}

func (c *Consumer) Close() error {
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type groupHandler struct {
	sender     Sender
	maxRetries int
	backoff    time.Duration
	logger     *logger.Logger
}

func newGroupHandler(sender Sender, maxRetries int, backoff time.Duration) *groupHandler {
	return &groupHandler{sender: sender, maxRetries: maxRetries, backoff: backoff, logger: logger.GetDefault()}
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.handleMessage(session.Context(), message); err != nil {
				if errors.Is(err, context.Canceled) {
					// left unmarked for redelivery
					return nil
				}
				h.logger.ErrorWithContext(session.Context(), "Notification not delivered", err, map[string]interface{}{
					"partition": message.Partition,
					"offset":    message.Offset,
				})
			}
			// undeliverable messages are logged and skipped
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification Notification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	var err error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if err = h.sender.Send(ctx, &notification); err == nil {
			notification.MarkSent()
			return nil
		}
		if attempt == h.maxRetries {
			break
		}

		delay := h.backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	notification.MarkFailed(err)
	return err
}
