package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/trading-position-modeler/internal/models"
)

// PositionInputsRepository is the storage the snapshot consumer replaces
type PositionInputsRepository interface {
	ReplaceAllPositionInputs(ctx context.Context, inputs []*models.PositionInput) error
}

// InfoNotifier receives the import summary
type InfoNotifier interface {
	Info(ctx context.Context, message string)
}

// messageReader is the subset of *kafka.Reader the consumer uses
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
	Config() kafka.ReaderConfig
}

// Consumer imports position input snapshots published by other systems.
// Each snapshot replaces the stored set as a whole.
type Consumer struct {
	reader   messageReader
	repo     PositionInputsRepository
	notifier InfoNotifier
	logger   zerolog.Logger
}

// NewConsumer creates a new Kafka consumer for position input snapshots
func NewConsumer(brokers []string, topic, groupID string, repo PositionInputsRepository, notifier InfoNotifier, logger zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:   reader,
		repo:     repo,
		notifier: notifier,
		logger:   logger.With().Str("component", "kafka_consumer").Logger(),
	}
}

// Start consumes messages until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().Str("topic", c.reader.Config().Topic).Msg("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("Kafka consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return c.reader.Close()
				}
				c.logger.Error().Err(err).Msg("Error reading message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error().Err(err).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Error processing message")
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.PositionInputsEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal position inputs event: %w", err)
	}

	if event.EventType != models.EventPositionInputsImport {
		c.logger.Debug().Str("event_type", event.EventType).Msg("Ignoring event type")
		return nil
	}

	inputs := make([]*models.PositionInput, 0, len(event.Data.Positions))
	for i, data := range event.Data.Positions {
		p, err := convertPositionInputData(event.Source, data)
		if err != nil {
			return fmt.Errorf("failed to convert position %d: %w", i, err)
		}
		inputs = append(inputs, p)
	}

	if err := c.repo.ReplaceAllPositionInputs(ctx, inputs); err != nil {
		return fmt.Errorf("failed to replace position inputs: %w", err)
	}

	c.logger.Info().Str("source", event.Source).Int("count", len(inputs)).Msg("Imported position inputs snapshot")
	if c.notifier != nil {
		c.notifier.Info(ctx, fmt.Sprintf("%d position(s) imported from %s", len(inputs), event.Source))
	}
	return nil
}

// convertPositionInputData maps a snapshot row to a position input. Empty numeric
// fields take the modeling default; malformed ones reject the row.
func convertPositionInputData(source string, data models.PositionInputData) (*models.PositionInput, error) {
	if data.Name == "" {
		return nil, fmt.Errorf("missing name")
	}

	r := models.DefaultPositionInputRecord()
	r.ID = importID(source, data.ID)
	r.Name = data.Name
	r.ListPosition = data.ListPosition

	fields := []struct {
		name  string
		raw   string
		field *float64
	}{
		{"initial_value", data.InitialValue, &r.InitialValue},
		{"price_per_share", data.PricePerShare, &r.PricePerShare},
		{"average_number_of_positions_per_day", data.AverageNumberOfPositionsPerDay, &r.AverageNumberOfPositionsPerDay},
		{"average_number_of_lots_per_position", data.AverageNumberOfLotsPerPosition, &r.AverageNumberOfLotsPerPosition},
		{"average_number_of_trading_days_per_week", data.AverageNumberOfTradingDaysPerWeek, &r.AverageNumberOfTradingDaysPerWeek},
		{"estimated_success_rate", data.EstimatedSuccessRate, &r.EstimatedSuccessRate},
		{"target_gain", data.TargetGain, &r.TargetGain},
		{"federal_tax_rate", data.FederalTaxRate, &r.FederalTaxRate},
		{"state_tax_rate", data.StateTaxRate, &r.StateTaxRate},
		{"expenses", data.Expenses, &r.Expenses},
		{"estimated_fee_per_transaction", data.EstimatedFeePerTransaction, &r.EstimatedFeePerTransaction},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
		*f.field = d.InexactFloat64()
	}

	return models.NewPositionInputFromRecord(r), nil
}

// importID keeps UUID ids as they are and maps foreign ids to a stable UUID
func importID(source, id string) string {
	if id == "" {
		return ""
	}
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(source+":"+id)).String()
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}
