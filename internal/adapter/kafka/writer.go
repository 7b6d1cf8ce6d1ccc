package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes rendered cells to a Kafka topic.
// It implements pipeline.CellPublisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter creates a Kafka producer for the configured cell topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    500,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishCells writes every cell in a single WriteMessages call, keyed by year and month.
func (w *Writer) PublishCells(ctx context.Context, cells []chart.Cell, renderedAt time.Time) error {
	if len(cells) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(cells))
	for i := range cells {
		msg, err := serializeToMessage(cells[i], renderedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish cells: %w", err)
	}
	w.logger.Debug("cells published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// cellKey identifies a cell, e.g. "1753-00".
func cellKey(c chart.Cell) string {
	return fmt.Sprintf("%d-%02d", c.Year, c.Month)
}

// serializeToMessage marshals a Cell into a Kafka message.
func serializeToMessage(cell chart.Cell, renderedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(cell)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cell: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(cellKey(cell)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(strconv.Itoa(cell.Year))},
			{Key: "rendered_at", Value: []byte(renderedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
