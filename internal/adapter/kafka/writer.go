package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/storm-surge-setup/internal/config"
	"github.com/couchcryptid/storm-surge-setup/internal/domain"
)

// Writer publishes run manifests to a Kafka topic.
// It implements pipeline.ManifestPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured manifest topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishManifest serializes a run manifest and writes it keyed by run id.
func (w *Writer) PublishManifest(ctx context.Context, m domain.RunManifest) error {
	msg, err := serializeToMessage(m)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish manifest %s: %w", m.RunID, err)
	}
	w.logger.Debug("manifest published", "run_id", m.RunID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RunManifest into a Kafka message.
func serializeToMessage(m domain.RunManifest) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize run manifest: %w", err)
	}
	headers := []kafkago.Header{
		{Key: "package", Value: []byte(m.Package)},
		{Key: "created_at", Value: []byte(m.CreatedAt.Format(time.RFC3339))},
	}
	if m.Storm != nil {
		headers = append(headers, kafkago.Header{Key: "storm_id", Value: []byte(m.Storm.ID)})
	}
	return kafkago.Message{
		Key:     []byte(m.RunID),
		Value:   data,
		Headers: headers,
	}, nil
}
