package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/irsearch/platform/pkg/config"
	"github.com/segmentio/kafka-go"
)

// EventWriter publishes search events to the analytics topic as JSON, keyed
// by event type so partitions group like events.
type EventWriter struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewEventWriter creates a writer for the configured analytics topic.
func NewEventWriter(cfg config.KafkaConfig) *EventWriter {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topics.AnalyticsEvents,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
	}
	return &EventWriter{
		writer: w,
		logger: slog.Default().With("component", "analytics-writer", "topic", cfg.Topics.AnalyticsEvents),
	}
}

// Publish serialises one search event and writes it synchronously.
func (w *EventWriter) Publish(ctx context.Context, event SearchEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding analytics event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: value,
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing analytics event: %w", err)
	}
	w.logger.Debug("event published", "type", event.Type, "query", event.Query)
	return nil
}

// Close flushes pending writes and closes the writer.
func (w *EventWriter) Close() error {
	return w.writer.Close()
}

// EventReader consumes the analytics topic and folds each decoded event
// into an Aggregator.
type EventReader struct {
	reader *kafka.Reader
	agg    *Aggregator
	logger *slog.Logger
}

// NewEventReader creates a consumer in the configured group, starting from
// the latest offset: the aggregate is a live view, not a replay.
func NewEventReader(cfg config.KafkaConfig, agg *Aggregator) *EventReader {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topics.AnalyticsEvents,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1e3,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return &EventReader{
		reader: r,
		agg:    agg,
		logger: slog.Default().With("component", "analytics-reader", "topic", cfg.Topics.AnalyticsEvents),
	}
}

// Run fetches and aggregates events until ctx is cancelled. Undecodable
// messages are dropped and committed so they are not re-fetched forever.
func (r *EventReader) Run(ctx context.Context) error {
	r.logger.Info("analytics reader started")
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Info("analytics reader stopping", "reason", ctx.Err())
				return r.reader.Close()
			}
			r.logger.Error("fetching analytics event failed", "error", err)
			continue
		}
		var event SearchEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			r.logger.Error("dropping undecodable analytics event",
				"offset", msg.Offset,
				"error", err,
			)
		} else {
			r.agg.Record(event)
		}
		if err := r.reader.CommitMessages(ctx, msg); err != nil {
			r.logger.Error("committing analytics event failed",
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}
