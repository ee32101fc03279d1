// Package kafka publishes newly inserted events to an announce topic for
// downstream consumers. The announcer is optional and feature-flagged; the
// stored record is always the source of truth.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/quakewatch/quake-data-etl/internal/domain"
)

// Announcer implements pipeline.Announcer on a Kafka producer.
type Announcer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAnnouncer creates a Kafka producer for the announce topic.
func NewAnnouncer(brokers []string, topic string, logger *slog.Logger) *Announcer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Announcer{writer: w, logger: logger}
}

// Announce serializes and publishes one inserted event, keyed by its
// identity key so per-event ordering is stable.
func (a *Announcer) Announce(ctx context.Context, key string, ev domain.QuakeEvent) error {
	msg, err := serializeToMessage(key, ev)
	if err != nil {
		return err
	}
	return a.writer.WriteMessages(ctx, msg)
}

func (a *Announcer) Close() error {
	return a.writer.Close()
}

// serializeToMessage marshals a QuakeEvent into a Kafka message.
func serializeToMessage(key string, ev domain.QuakeEvent) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize quake event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "variant", Value: []byte(ev.Variant)},
			{Key: "ingested_at", Value: []byte(ev.IngestedAt.Format(time.RFC3339))},
		},
	}, nil
}
