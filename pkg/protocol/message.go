// Package protocol defines the WebSocket message types for cleaner control.
// It is shared between the robot service and remote clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Client → Robot messages
	TypeCommand  MessageType = "command"  // Single motion command
	TypeSequence MessageType = "sequence" // Ordered list of motion commands
	TypeDirt     MessageType = "dirt"     // Sensed dirt level
	TypePower    MessageType = "power"    // Run the power subsystem check
	TypeReturn   MessageType = "return"   // Return to start
	TypeReset    MessageType = "reset"    // Re-initialize the robot
	TypeStatus   MessageType = "status"   // Query current state

	// Robot → Client messages
	TypeResult      MessageType = "result"       // Result of a command
	TypeResults     MessageType = "results"      // Results of a sequence
	TypeState       MessageType = "state"        // Current state
	TypePowerReport MessageType = "power_report" // Power subsystem outcome
	TypeEvent       MessageType = "event"        // Telemetry event broadcast
	TypeError       MessageType = "error"        // Rejected request

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id,omitempty"` // Correlates replies with requests
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// =============================================================================
// Client → Robot Message Types
// =============================================================================

// CommandData carries one command token ("f", "l", "r").
type CommandData struct {
	Token string `json:"token"`
}

// SequenceData carries an ordered list of command tokens.
type SequenceData struct {
	Tokens []string `json:"commands"`
}

// DirtData carries a sensed dirt level ("low" or "high").
type DirtData struct {
	Level string `json:"level"`
}

// =============================================================================
// Robot → Client Message Types
// =============================================================================

// PositionData is a grid cell.
type PositionData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// StateData is the robot state plus its canonical status string.
type StateData struct {
	Status  string `json:"status"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Heading string `json:"heading"`
	Speed   string `json:"speed"`
}

// ResultData is the outcome of one command.
type ResultData struct {
	// Status is "(x,y,H)", "!(x,y,H)" or "(x,y,H)(ox,oy)".
	Status  string        `json:"status"`
	Outcome string        `json:"outcome"`
	State   StateData     `json:"state"`
	Target  *PositionData `json:"target,omitempty"`
}

// ResultsData is the outcome of a sequence. Error is set when the sequence
// stopped early.
type ResultsData struct {
	Results []ResultData `json:"results"`
	Error   string       `json:"error,omitempty"`
}

// PowerData is the outcome of a power subsystem check.
type PowerData struct {
	Charge          int    `json:"charge"`
	Mode            string `json:"mode"`
	CleaningEnabled bool   `json:"cleaning_enabled"`
}

// ErrorData describes a rejected request.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeBadRequest     = "bad_request"
	CodeInvalidCommand = "invalid_command"
	CodeInvalidLevel   = "invalid_dirt_level"
	CodeHardware       = "hardware"
)

// PingData is a health check request.
type PingData struct {
	ClientTS int64 `json:"client_ts"`
}

// PongData answers a ping.
type PongData struct {
	ClientTS int64 `json:"client_ts"`
	ServerTS int64 `json:"server_ts"`
}
