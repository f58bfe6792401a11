// Package telemetry publishes robot events to external brokers.
//
// Every operation on the robot produces one Event. Sinks deliver events to
// MQTT or Kafka; delivery failures never affect the robot itself.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
)

// Kind names the operation that produced an event.
type Kind string

const (
	KindCommand  Kind = "command"
	KindSequence Kind = "sequence"
	KindDirt     Kind = "dirt"
	KindPower    Kind = "power"
	KindReturn   Kind = "return"
	KindReset    Kind = "reset"
)

// Event describes one robot operation.
type Event struct {
	ID      string              `json:"id"`
	RobotID string              `json:"robot_id"`
	Kind    Kind                `json:"kind"`
	Status  string              `json:"status"`
	Outcome string              `json:"outcome,omitempty"`
	State   protocol.StateData  `json:"state"`
	Power   *protocol.PowerData `json:"power,omitempty"`
	Error   string              `json:"error,omitempty"`
	Time    time.Time           `json:"time"`
}

// NewEvent creates an event with a fresh id and the current time.
func NewEvent(robotID string, kind Kind) Event {
	return Event{
		ID:      uuid.NewString(),
		RobotID: robotID,
		Kind:    kind,
		Time:    time.Now().UTC(),
	}
}

// Encode returns the JSON payload for the event.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Sink delivers events somewhere.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }

// Multi fans an event out to several sinks.
type Multi []Sink

// Publish delivers to every sink and joins the failures.
func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins the failures.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
