package hw

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrCollision is returned by Sim.Translate when the cell ahead is occupied.
var ErrCollision = errors.New("hw: drive collided with obstacle")

// Cell is a grid coordinate in the simulated room.
type Cell struct {
	X, Y int
}

// SimConfig configures a simulated board.
type SimConfig struct {
	// InfraredPin is the input pin that reports an obstacle ahead.
	InfraredPin Pin

	// Charge is the initial battery percentage.
	Charge int

	// Drain is the charge consumed per translation.
	Drain int

	// Obstacles are the occupied cells.
	Obstacles []Cell
}

// Sim is an in-memory room with a simulated drive, battery and infrared sensor.
// It tracks the physical pose from Drive calls so the infrared pin reports
// whether the cell in front of the wheels is occupied.
type Sim struct {
	mu        sync.Mutex
	cfg       SimConfig
	charge    int
	pos       Cell
	dir       int // index into simDeltas, 0 = north
	obstacles map[Cell]bool
	outputs   map[Pin]Level
}

// simDeltas are the unit moves for north, east, south, west.
var simDeltas = [4]Cell{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// NewSim creates a simulated board at the origin facing north.
func NewSim(cfg SimConfig) *Sim {
	s := &Sim{
		cfg:       cfg,
		charge:    clampCharge(cfg.Charge),
		obstacles: make(map[Cell]bool, len(cfg.Obstacles)),
		outputs:   make(map[Pin]Level),
	}
	for _, c := range cfg.Obstacles {
		s.obstacles[c] = true
	}
	return s
}

// Read returns the latched output level, or for the infrared pin whether
// the cell ahead is occupied.
func (s *Sim) Read(pin Pin) (Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin == s.cfg.InfraredPin {
		return Level(s.obstacles[s.ahead()]), nil
	}
	return s.outputs[pin], nil
}

// Write latches an output level.
func (s *Sim) Write(pin Pin, level Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin == s.cfg.InfraredPin {
		return fmt.Errorf("hw: %s is an input pin", pin)
	}
	s.outputs[pin] = level
	return nil
}

// ChargeLeft returns the remaining simulated charge.
func (s *Sim) ChargeLeft() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.charge, nil
}

// Translate moves the simulated wheels one cell forward and drains the battery.
func (s *Sim) Translate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.ahead()
	if s.obstacles[next] {
		return fmt.Errorf("%w at (%d,%d)", ErrCollision, next.X, next.Y)
	}
	s.pos = next
	s.charge = clampCharge(s.charge - s.cfg.Drain)
	return nil
}

// Rotate turns the simulated wheels a quarter turn.
func (s *Sim) Rotate(direction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch strings.ToLower(direction) {
	case "r", "right":
		s.dir = (s.dir + 1) % 4
	case "l", "left":
		s.dir = (s.dir + 3) % 4
	default:
		return fmt.Errorf("hw: unknown rotation %q", direction)
	}
	return nil
}

// Reset places the simulated wheels back on the origin facing north.
func (s *Sim) Reset() {
	s.mu.Lock()
	s.pos = Cell{}
	s.dir = 0
	s.mu.Unlock()
}

// SetCharge overrides the simulated battery percentage.
func (s *Sim) SetCharge(percent int) {
	s.mu.Lock()
	s.charge = clampCharge(percent)
	s.mu.Unlock()
}

// Output returns the latched level of an output pin.
func (s *Sim) Output(pin Pin) Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputs[pin]
}

// Pose returns the physical cell and heading index (0 = north, clockwise).
func (s *Sim) Pose() (Cell, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, s.dir
}

func (s *Sim) ahead() Cell {
	d := simDeltas[s.dir]
	return Cell{X: s.pos.X + d.X, Y: s.pos.Y + d.Y}
}

func clampCharge(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ParseObstacles parses a list of cells in "x,y;x,y" form.
// Blank input yields no obstacles.
func ParseObstacles(s string) ([]Cell, error) {
	var cells []Cell
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xs, ys, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("hw: obstacle %q: want x,y", part)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("hw: obstacle %q: %w", part, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("hw: obstacle %q: %w", part, err)
		}
		cells = append(cells, Cell{X: x, Y: y})
	}
	return cells, nil
}

// Ensure Sim implements Board
var _ Board = (*Sim)(nil)
