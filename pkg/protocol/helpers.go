package protocol

import "time"

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewCommandMessage creates a command message
func NewCommandMessage(token string) (*Message, error) {
	return NewMessage(TypeCommand, CommandData{Token: token})
}

// NewSequenceMessage creates a sequence message
func NewSequenceMessage(tokens []string) (*Message, error) {
	return NewMessage(TypeSequence, SequenceData{Tokens: tokens})
}

// NewDirtMessage creates a dirt level message
func NewDirtMessage(level string) (*Message, error) {
	return NewMessage(TypeDirt, DirtData{Level: level})
}

// NewResultMessage creates a command result message
func NewResultMessage(result ResultData) (*Message, error) {
	return NewMessage(TypeResult, result)
}

// NewStateMessage creates a state message
func NewStateMessage(state StateData) (*Message, error) {
	return NewMessage(TypeState, state)
}

// NewErrorMessage creates an error reply
func NewErrorMessage(code, message string) (*Message, error) {
	return NewMessage(TypeError, ErrorData{Code: code, Message: message})
}

// NewPingMessage creates a ping message stamped with the client clock
func NewPingMessage() (*Message, error) {
	return NewMessage(TypePing, PingData{ClientTS: time.Now().UnixMilli()})
}

// NewPongMessage creates a pong response
func NewPongMessage(clientTS, serverTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{ClientTS: clientTS, ServerTS: serverTS})
}

// Reply stamps msg with the request id so the client can correlate it.
func (m *Message) Reply(requestID string) *Message {
	m.ID = requestID
	return m
}
