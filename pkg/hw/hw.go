// Package hw defines the hardware capabilities the cleaning robot drives.
//
// The robot never talks to GPIO or the battery gauge directly. It consumes
// small, focused interfaces so that a real board adapter, the simulator in
// this package, or a test mock can be substituted without changing behavior.
package hw

import "fmt"

// Level is a binary logic level on a digital pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// String returns "HIGH" or "LOW".
func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// Pin identifies a logical digital pin (BCM numbering on the reference board).
type Pin int

// String returns the pin in "GPIO12" form.
func (p Pin) String() string {
	return fmt.Sprintf("GPIO%d", int(p))
}

// PinReader reads the level of an input pin.
type PinReader interface {
	Read(pin Pin) (Level, error)
}

// PinWriter drives an output pin.
type PinWriter interface {
	Write(pin Pin, level Level) error
}

// PinIO is the full digital pin interface.
type PinIO interface {
	PinReader
	PinWriter
}

// BatterySensor reports the remaining charge as an integer percentage, 0..100.
type BatterySensor interface {
	ChargeLeft() (int, error)
}

// Drive actuates the wheels. Translate moves one cell straight ahead; Rotate
// turns in place in the given direction ("l" or "r").
type Drive interface {
	Translate() error
	Rotate(direction string) error
}

// Board bundles every capability; both Mock and Sim implement it.
type Board interface {
	PinIO
	BatterySensor
	Drive
}
