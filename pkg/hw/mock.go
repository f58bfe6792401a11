package hw

import (
	"fmt"
	"sync"
)

// Mock implements Board for testing.
// Behavior can be customized via function fields; every call is recorded.
type Mock struct {
	// ChargeFunc is called when ChargeLeft is invoked.
	// If nil, returns Charge.
	ChargeFunc func() (int, error)

	// ReadFunc is called when Read is invoked.
	// If nil, returns the last level written to (or set on) the pin.
	ReadFunc func(pin Pin) (Level, error)

	// WriteErr, TranslateErr and RotateErr are returned by the matching
	// method when non-nil. The call is still recorded.
	WriteErr     error
	TranslateErr error
	RotateErr    error

	// Charge is the battery percentage reported when ChargeFunc is nil.
	Charge int

	mu    sync.Mutex
	pins  map[Pin]Level
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Pin    Pin
	Level  Level
	Arg    string
}

// String renders the call compactly, e.g. "Write(GPIO12,HIGH)".
func (c MockCall) String() string {
	switch c.Method {
	case "Write":
		return fmt.Sprintf("Write(%s,%s)", c.Pin, c.Level)
	case "Read":
		return fmt.Sprintf("Read(%s)", c.Pin)
	case "Rotate":
		return fmt.Sprintf("Rotate(%s)", c.Arg)
	default:
		return c.Method + "()"
	}
}

// NewMock creates a mock board with a full battery and every pin LOW.
func NewMock() *Mock {
	return &Mock{
		Charge: 100,
		pins:   make(map[Pin]Level),
	}
}

// SetPin forces the level returned by Read for pin.
func (m *Mock) SetPin(pin Pin, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pins == nil {
		m.pins = make(map[Pin]Level)
	}
	m.pins[pin] = level
}

// Level returns the current level of pin.
func (m *Mock) Level(pin Pin) Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pins[pin]
}

// Read records the call and returns the pin level.
func (m *Mock) Read(pin Pin) (Level, error) {
	m.record(MockCall{Method: "Read", Pin: pin})
	if m.ReadFunc != nil {
		return m.ReadFunc(pin)
	}
	return m.Level(pin), nil
}

// Write records the call and latches the level unless WriteErr is set.
func (m *Mock) Write(pin Pin, level Level) error {
	m.record(MockCall{Method: "Write", Pin: pin, Level: level})
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.SetPin(pin, level)
	return nil
}

// ChargeLeft records the call and returns the configured charge.
func (m *Mock) ChargeLeft() (int, error) {
	m.record(MockCall{Method: "ChargeLeft"})
	if m.ChargeFunc != nil {
		return m.ChargeFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Charge, nil
}

// Translate records the call.
func (m *Mock) Translate() error {
	m.record(MockCall{Method: "Translate"})
	return m.TranslateErr
}

// Rotate records the call.
func (m *Mock) Rotate(direction string) error {
	m.record(MockCall{Method: "Rotate", Arg: direction})
	return m.RotateErr
}

// SetCharge changes the reported battery charge.
func (m *Mock) SetCharge(percent int) {
	m.mu.Lock()
	m.Charge = percent
	m.mu.Unlock()
}

// Calls returns a copy of all recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallsTo returns the recorded calls to a single method.
func (m *Mock) CallsTo(method string) []MockCall {
	var result []MockCall
	for _, c := range m.Calls() {
		if c.Method == method {
			result = append(result, c)
		}
	}
	return result
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

func (m *Mock) record(call MockCall) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

// Ensure Mock implements Board
var _ Board = (*Mock)(nil)
