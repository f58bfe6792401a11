package cleaner

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-cleaner/pkg/hw"
)

// Command is a recognized motion command.
type Command string

const (
	Forward Command = "f"
	Left    Command = "l"
	Right   Command = "r"
)

// ParseCommand accepts "f", "l", "r" or "forward", "left", "right", ignoring case.
func ParseCommand(token string) (Command, error) {
	switch strings.ToLower(token) {
	case "f", "forward":
		return Forward, nil
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCommand, token)
}

// ObstacleFound reports whether the infrared sensor sees an obstacle ahead.
func (r *Robot) ObstacleFound() (bool, error) {
	level, err := r.gpio.Read(r.pins.Infrared)
	if err != nil {
		return false, hardwareErr("read infrared", err)
	}
	return level == hw.High, nil
}

// Execute runs one command token.
//
// Left and right rotate in place. Forward first checks the battery, then the
// infrared sensor, and only then drives; a refused step is reported in the
// Result rather than as an error. An unrecognized token returns
// ErrInvalidCommand without touching state or hardware.
func (r *Robot) Execute(token string) (Result, error) {
	cmd, err := ParseCommand(token)
	if err != nil {
		return Result{}, err
	}

	switch cmd {
	case Left, Right:
		return r.rotate(cmd)
	default:
		return r.forward()
	}
}

// ExecuteSequence runs tokens in order. Blocked steps do not stop the run;
// the first invalid token or hardware failure does, and the results gathered
// so far are returned with the error.
func (r *Robot) ExecuteSequence(tokens []string) ([]Result, error) {
	results := make([]Result, 0, len(tokens))
	for i, token := range tokens {
		res, err := r.Execute(token)
		if err != nil {
			return results, fmt.Errorf("command %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Robot) rotate(cmd Command) (Result, error) {
	if err := r.drive.Rotate(string(cmd)); err != nil {
		return Result{}, hardwareErr("rotate", err)
	}
	from := r.state.Heading
	if cmd == Right {
		r.state.Heading = from.Right()
	} else {
		r.state.Heading = from.Left()
	}
	r.log.Debug("rotated", "from", from, "to", r.state.Heading)
	return Result{Outcome: Moved, State: r.state}, nil
}

func (r *Robot) forward() (Result, error) {
	charge, err := r.battery.ChargeLeft()
	if err != nil {
		return Result{}, hardwareErr("read battery", err)
	}
	if lowBattery(charge) {
		r.log.Warn("forward refused, battery low", "charge", charge, "state", r.state)
		return Result{Outcome: BlockedLowBattery, State: r.state}, nil
	}

	target := r.state.Position.Add(r.state.Heading.Delta())

	blocked, err := r.ObstacleFound()
	if err != nil {
		return Result{}, err
	}
	if blocked {
		r.log.Info("forward refused, obstacle ahead", "state", r.state, "target", target)
		return Result{Outcome: BlockedObstacle, State: r.state, Target: target}, nil
	}

	if err := r.drive.Translate(); err != nil {
		return Result{}, hardwareErr("translate", err)
	}
	r.state.Position = target
	r.log.Debug("moved", "state", r.state)
	return Result{Outcome: Moved, State: r.state}, nil
}
