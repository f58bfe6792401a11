package cleaner

import (
	"fmt"
	"strings"
)

// Heading is the cardinal orientation of the robot.
type Heading byte

const (
	North Heading = 'N'
	East  Heading = 'E'
	South Heading = 'S'
	West  Heading = 'W'
)

// headings lists the cardinal values in clockwise order.
var headings = [4]Heading{North, East, South, West}

func (h Heading) index() int {
	for i, v := range headings {
		if v == h {
			return i
		}
	}
	return 0
}

// Right returns the heading after a clockwise quarter turn.
func (h Heading) Right() Heading {
	return headings[(h.index()+1)%4]
}

// Left returns the heading after a counter-clockwise quarter turn.
func (h Heading) Left() Heading {
	return headings[(h.index()+3)%4]
}

// Delta returns the unit displacement of one forward step.
func (h Heading) Delta() Position {
	switch h {
	case East:
		return Position{X: 1}
	case South:
		return Position{Y: -1}
	case West:
		return Position{X: -1}
	default:
		return Position{Y: 1}
	}
}

// Valid reports whether h is one of the four cardinal values.
func (h Heading) Valid() bool {
	return h == North || h == East || h == South || h == West
}

// String returns the single-letter heading.
func (h Heading) String() string {
	return string(h)
}

// MarshalText encodes the heading as its letter.
func (h Heading) MarshalText() ([]byte, error) {
	return []byte{byte(h)}, nil
}

// UnmarshalText decodes a heading letter.
func (h *Heading) UnmarshalText(b []byte) error {
	if len(b) != 1 || !Heading(b[0]).Valid() {
		return fmt.Errorf("cleaner: invalid heading %q", b)
	}
	*h = Heading(b[0])
	return nil
}

// Position is a cell on the unbounded integer grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p moved by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// String returns "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Speed is the cleaning pass speed.
type Speed string

const (
	Fast Speed = "fast"
	Slow Speed = "slow"
)

// DirtLevel is the sensed soiling intensity.
type DirtLevel string

const (
	DirtLow  DirtLevel = "low"
	DirtHigh DirtLevel = "high"
)

// ParseDirtLevel parses "low" or "high", ignoring case.
func ParseDirtLevel(s string) (DirtLevel, error) {
	switch DirtLevel(strings.ToLower(s)) {
	case DirtLow:
		return DirtLow, nil
	case DirtHigh:
		return DirtHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirtLevel, s)
}

// Speed returns the cleaning speed for the level.
func (l DirtLevel) Speed() Speed {
	if l == DirtHigh {
		return Slow
	}
	return Fast
}

// State is everything the robot remembers for the duration of a run.
type State struct {
	Position Position `json:"position"`
	Heading  Heading  `json:"heading"`
	Speed    Speed    `json:"speed"`
}

// startState is the canonical origin pose.
var startState = State{Heading: North, Speed: Fast}

// String returns the canonical "(x,y,H)" rendering.
func (s State) String() string {
	return fmt.Sprintf("(%d,%d,%s)", s.Position.X, s.Position.Y, s.Heading)
}
