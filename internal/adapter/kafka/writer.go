package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weatherwise-risk/internal/config"
	"github.com/couchcryptid/weatherwise-risk/internal/domain"
)

// Writer produces analysis results to a Kafka topic.
// It implements domain.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured results topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes analyses in a single WriteMessages call.
// Messages are keyed by analysis ID so retries of one result land on the
// same partition.
func (w *Writer) LoadBatch(ctx context.Context, analyses []domain.Analysis) error {
	if len(analyses) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(analyses))
	for i, a := range analyses {
		msg, err := serializeToMessage(a)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d analyses: %w", len(msgs), err)
	}
	w.logger.Debug("analyses published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an analysis result into a Kafka message.
func serializeToMessage(a domain.Analysis) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s analysis: %w", a.Mode(), err)
	}
	return kafkago.Message{
		Key:   []byte(a.ID()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "mode", Value: []byte(a.Mode())},
			{Key: "generated_at", Value: []byte(a.Timestamp().Format(time.RFC3339))},
		},
	}, nil
}
