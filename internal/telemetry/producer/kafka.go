// Package producer publishes client usage events to Kafka.
package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/telemetry"
)

// MessageWriter is the part of kafka.Writer the emitter uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEmitter implements telemetry.EventEmitter using segmentio/kafka-go.
type KafkaEmitter struct {
	writer MessageWriter
	nowF   func() time.Time
}

// NewKafkaEmitter returns an emitter writing JSON events to topic. It returns nil when brokers or topic
// is empty; a nil *KafkaEmitter emits nothing. Call Close when shutting down.
func NewKafkaEmitter(brokers []string, topic string) *KafkaEmitter {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return NewKafkaEmitterWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	})
}

// NewKafkaEmitterWithWriter returns an emitter using w.
func NewKafkaEmitterWithWriter(w MessageWriter) *KafkaEmitter {
	return &KafkaEmitter{writer: w, nowF: time.Now}
}

// Emit writes the event as JSON, keyed by user so one user's events stay ordered within a partition.
func (p *KafkaEmitter) Emit(ctx context.Context, event *telemetry.Event) error {
	if p == nil || p.writer == nil || event == nil {
		return nil
	}
	ev := event.Stamped(p.nowF())
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{Value: payload, Time: ev.CreatedAt}
	if ev.UserID != "" {
		msg.Key = []byte(ev.UserID)
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, msg)
}

// Close closes the Kafka writer. Safe on a nil emitter.
func (p *KafkaEmitter) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
