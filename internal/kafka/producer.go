package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/trogers1052/trading-position-modeler/internal/models"
)

// messageWriter is the subset of *kafka.Writer the producer uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles publishing position and notification events to Kafka
type Producer struct {
	writer             messageWriter
	eventsTopic        string
	notificationsTopic string
	logger             zerolog.Logger
}

// NewProducer creates a new Kafka producer. Each message names its own topic.
func NewProducer(brokers []string, eventsTopic, notificationsTopic string, logger zerolog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer:             writer,
		eventsTopic:        eventsTopic,
		notificationsTopic: notificationsTopic,
		logger:             logger.With().Str("component", "kafka_producer").Logger(),
	}
}

// PublishPositionCreated publishes a position created event
func (p *Producer) PublishPositionCreated(ctx context.Context, input *models.PositionInput) error {
	return p.publishPosition(ctx, models.EventPositionCreated, input)
}

// PublishPositionUpdated publishes a position updated event
func (p *Producer) PublishPositionUpdated(ctx context.Context, input *models.PositionInput) error {
	return p.publishPosition(ctx, models.EventPositionUpdated, input)
}

// PublishPositionDeleted publishes a position deleted event
func (p *Producer) PublishPositionDeleted(ctx context.Context, id string) error {
	event := models.PositionEvent{
		EventType: models.EventPositionDeleted,
		ID:        id,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, p.eventsTopic, id, event)
}

// PublishPositionsReordered publishes one event for the whole reorder batch
func (p *Producer) PublishPositionsReordered(ctx context.Context) error {
	event := models.PositionEvent{
		EventType: models.EventPositionsReordered,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, p.eventsTopic, models.EventPositionsReordered, event)
}

func (p *Producer) publishPosition(ctx context.Context, eventType string, input *models.PositionInput) error {
	view := input.View()
	event := models.PositionEvent{
		EventType: eventType,
		ID:        view.ID,
		Position:  &view,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, p.eventsTopic, view.ID, event)
}

// Success publishes a success notification
func (p *Producer) Success(ctx context.Context, message string) {
	p.notify(ctx, models.NotificationSuccess, message)
}

// Warn publishes a warning notification
func (p *Producer) Warn(ctx context.Context, message string) {
	p.notify(ctx, models.NotificationWarning, message)
}

// Error publishes an error notification
func (p *Producer) Error(ctx context.Context, message string) {
	p.notify(ctx, models.NotificationError, message)
}

// Info publishes an informational notification
func (p *Producer) Info(ctx context.Context, message string) {
	p.notify(ctx, models.NotificationInfo, message)
}

// notify never fails the caller; delivery errors are only logged
func (p *Producer) notify(ctx context.Context, level, message string) {
	event := models.NotificationEvent{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
	if err := p.publish(ctx, p.notificationsTopic, level, event); err != nil {
		p.logger.Warn().Err(err).Str("level", level).Msg("Failed to publish notification")
	}
}

func (p *Producer) publish(ctx context.Context, topic, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
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
