package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const defaultMaxAttempts = 3

// Producer writes JSON messages, retrying failed writes with a linear backoff.
type Producer struct {
	writer      *kafka.Writer
	maxAttempts int
	backoff     time.Duration
	logger      logger.Logger
}

func NewProducer(brokers []string, log logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		writer:      writer,
		maxAttempts: defaultMaxAttempts,
		backoff:     500 * time.Millisecond,
		logger:      log,
	}
}

// Publish marshals payload and writes it under key. Messages with the same
// key land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if lastErr = p.writer.WriteMessages(ctx, message); lastErr == nil {
			p.logger.Debug("Published to Kafka", "topic", topic, "key", key)
			return nil
		}
		p.logger.Warn("Kafka publish attempt failed", "topic", topic, "attempt", attempt, "error", lastErr)

		if attempt < p.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.backoff):
			}
		}
	}
	return fmt.Errorf("failed to write message to Kafka after %d attempts: %w", p.maxAttempts, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
