// Package cleaner implements the command state machine of an autonomous
// cleaning robot on an integer grid.
//
// A Robot tracks its position, heading and cleaning speed, gates forward
// motion on battery charge and the infrared obstacle sensor, and switches the
// cleaning system off when the battery runs low. Hardware is reached only
// through the interfaces in package hw.
//
// A Robot is not safe for concurrent use; see package service for a
// serialized wrapper.
package cleaner

import (
	"log/slog"

	"github.com/teslashibe/go-cleaner/internal/log"
	"github.com/teslashibe/go-cleaner/pkg/hw"
)

// LowBatteryThreshold is the charge percentage at or below which the robot
// refuses to drive and disables the cleaning system.
const LowBatteryThreshold = 10

// Default pin assignment (BCM numbering).
const (
	RechargeLEDPin    hw.Pin = 12
	CleaningSystemPin hw.Pin = 13
	InfraredPin       hw.Pin = 15
)

// Pins names the pins the robot drives and reads.
type Pins struct {
	RechargeLED    hw.Pin
	CleaningSystem hw.Pin
	Infrared       hw.Pin
}

// DefaultPins is the reference board wiring.
var DefaultPins = Pins{
	RechargeLED:    RechargeLEDPin,
	CleaningSystem: CleaningSystemPin,
	Infrared:       InfraredPin,
}

// Option configures a Robot.
type Option func(*Robot)

// WithPins overrides the pin assignment.
func WithPins(p Pins) Option {
	return func(r *Robot) {
		r.pins = p
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Robot) {
		if l != nil {
			r.log = l
		}
	}
}

// Robot is a cleaning robot bound to its hardware.
type Robot struct {
	gpio    hw.PinIO
	battery hw.BatterySensor
	drive   hw.Drive
	pins    Pins
	log     *slog.Logger

	state State
}

// New creates a robot at the origin facing north, cleaning fast.
func New(gpio hw.PinIO, battery hw.BatterySensor, drive hw.Drive, opts ...Option) *Robot {
	r := &Robot{
		gpio:    gpio,
		battery: battery,
		drive:   drive,
		pins:    DefaultPins,
		log:     log.With("component", "cleaner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Initialize()
	return r
}

// Initialize resets position to (0,0) and heading to north. Safe to call any
// number of times.
func (r *Robot) Initialize() {
	r.state.Position = startState.Position
	r.state.Heading = startState.Heading
	if r.state.Speed == "" {
		r.state.Speed = startState.Speed
	}
}

// Status renders the current state as "(x,y,H)". It never carries the
// blocked or low-battery markers; those belong to the Execute result.
func (r *Robot) Status() string {
	return r.state.String()
}

// State returns a snapshot of the robot state.
func (r *Robot) State() State {
	return r.state
}

// Pins returns the pin assignment in use.
func (r *Robot) Pins() Pins {
	return r.pins
}

// ReturnToStart puts the robot back on the origin facing north without
// driving there. It never touches hardware and cannot fail.
func (r *Robot) ReturnToStart() string {
	r.state.Position = startState.Position
	r.state.Heading = startState.Heading
	r.log.Debug("returned to start")
	return r.Status()
}

// DetectDirtLevel adapts the cleaning speed to the sensed dirt: slow on high
// dirt, fast on low. Unknown levels are rejected and change nothing.
func (r *Robot) DetectDirtLevel(level string) error {
	l, err := ParseDirtLevel(level)
	if err != nil {
		return err
	}
	r.state.Speed = l.Speed()
	r.log.Debug("dirt level sensed", "level", l, "speed", r.state.Speed)
	return nil
}
