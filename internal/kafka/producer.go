package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/trogers1052/wheel-tracker/internal/models"
)

// Producer publishes position lifecycle events to Kafka. Publishing is
// best-effort; callers log failures and move on.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishPositionOpened publishes a position opened event
func (p *Producer) PublishPositionOpened(ctx context.Context, pos *models.Position) error {
	event := models.PositionEvent{
		EventType:  models.EventPositionOpened,
		Position:   pos,
		PositionID: pos.ID,
		Ticker:     pos.Ticker,
		Timestamp:  time.Now(),
	}
	return p.publish(ctx, pos.Ticker, event)
}

// PublishPositionUpdated publishes a position updated event
func (p *Producer) PublishPositionUpdated(ctx context.Context, pos *models.Position) error {
	event := models.PositionEvent{
		EventType:  models.EventPositionUpdated,
		Position:   pos,
		PositionID: pos.ID,
		Ticker:     pos.Ticker,
		Timestamp:  time.Now(),
	}
	return p.publish(ctx, pos.Ticker, event)
}

// PublishPositionDeleted publishes a position deleted event
func (p *Producer) PublishPositionDeleted(ctx context.Context, id string) error {
	event := models.PositionEvent{
		EventType:  models.EventPositionDeleted,
		PositionID: id,
		Timestamp:  time.Now(),
	}
	return p.publish(ctx, id, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.PositionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
