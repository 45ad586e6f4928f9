// Package events publishes label lifecycle events to Kafka. The publisher
// is optional; a nil *Publisher is a safe no-op.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/parcelworks/label-service/pkg/logging"
)

// DefaultTopic is the topic label events are published to
const DefaultTopic = "shipping.label.events"

// LabelPurchasedEvent is emitted after a label is successfully purchased
type LabelPurchasedEvent struct {
	LabelID       string    `json:"labelId"`
	ShipmentID    string    `json:"shipmentId"`
	Carrier       string    `json:"carrier"`
	Service       string    `json:"service"`
	TrackingCode  string    `json:"trackingCode"`
	Cost          float64   `json:"cost"`
	International bool      `json:"international"`
	PurchasedAt   time.Time `json:"purchasedAt"`
}

// Config holds publisher configuration
type Config struct {
	Brokers []string
	Topic   string
}

// Publisher writes label events to Kafka
type Publisher struct {
	writer *kafka.Writer
	logger *logging.Logger
}

// NewPublisher creates a Kafka publisher. Returns nil when no brokers are
// configured, which callers treat as "events disabled".
func NewPublisher(config *Config, logger *logging.Logger) *Publisher {
	if config == nil || len(config.Brokers) == 0 {
		return nil
	}

	topic := config.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(config.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger.WithComponent("events"),
	}
}

// PublishLabelPurchased emits a label purchased event. Failures are logged,
// not surfaced; event delivery never blocks a label purchase result.
func (p *Publisher) PublishLabelPurchased(ctx context.Context, event LabelPurchasedEvent) {
	if p == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("Failed to marshal label event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.LabelID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("label.purchased")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithError(err).Warn("Failed to publish label event",
			"labelId", event.LabelID)
		return
	}

	p.logger.Debug("Published label event", "labelId", event.LabelID)
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return nil
}
