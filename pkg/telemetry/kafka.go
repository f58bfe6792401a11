package telemetry

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events to a Kafka topic keyed by robot id, so all
// events of one robot land on the same partition in order.
type KafkaSink struct {
	w     messageWriter
	topic string
}

// NewKafkaSink creates a sink writing to topic on brokers.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		w: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		topic: topic,
	}
}

// Publish writes the event.
func (s *KafkaSink) Publish(ctx context.Context, ev Event) error {
	payload, err := ev.Encode()
	if err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	msg := kafka.Message{Key: []byte(ev.RobotID), Value: payload, Time: ev.Time}
	if err := s.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("telemetry: kafka write to %s: %w", s.topic, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	return s.w.Close()
}
