package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cohort/pkg/correlation"

	"github.com/segmentio/kafka-go"
)

const heartbeatKey = "cohort-heartbeat"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Heartbeat publishes a small message on every tick so the producer send
// rate check measures a live writer.
type Heartbeat struct {
	writer   messageWriter
	interval time.Duration
	logger   *slog.Logger
}

type heartbeatMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHeartbeat creates a heartbeat publisher.
func NewHeartbeat(w messageWriter, interval time.Duration, l *slog.Logger) *Heartbeat {
	if interval <= 0 {
		interval = time.Second
	}
	return &Heartbeat{writer: w, interval: interval, logger: l}
}

// Run publishes until ctx is done.
func (h *Heartbeat) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.publish(ctx); err != nil && ctx.Err() == nil {
				h.logger.WarnContext(ctx, "Failed to publish heartbeat", slog.Any("error", err))
			}
		}
	}
}

func (h *Heartbeat) publish(ctx context.Context) error {
	msg := heartbeatMessage{ID: correlation.NewID(), Timestamp: time.Now().UTC()}
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return h.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(heartbeatKey),
		Value: value,
		Headers: []kafka.Header{
			{Key: correlation.HeaderName, Value: []byte(msg.ID)},
		},
	})
}
