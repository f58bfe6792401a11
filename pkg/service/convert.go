package service

import (
	"errors"

	"github.com/teslashibe/go-cleaner/pkg/cleaner"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
)

// StateData converts a robot state to its wire form.
func StateData(s cleaner.State) protocol.StateData {
	return protocol.StateData{
		Status:  s.String(),
		X:       s.Position.X,
		Y:       s.Position.Y,
		Heading: s.Heading.String(),
		Speed:   string(s.Speed),
	}
}

// ResultData converts a command result to its wire form.
func ResultData(r cleaner.Result) protocol.ResultData {
	out := protocol.ResultData{
		Status:  r.String(),
		Outcome: r.Outcome.String(),
		State:   StateData(r.State),
	}
	if r.Outcome == cleaner.BlockedObstacle {
		out.Target = &protocol.PositionData{X: r.Target.X, Y: r.Target.Y}
	}
	return out
}

// ResultsData converts a sequence outcome to its wire form.
func ResultsData(results []cleaner.Result, err error) protocol.ResultsData {
	out := protocol.ResultsData{Results: make([]protocol.ResultData, 0, len(results))}
	for _, r := range results {
		out.Results = append(out.Results, ResultData(r))
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

// PowerData converts a power report to its wire form.
func PowerData(p cleaner.PowerReport) protocol.PowerData {
	return protocol.PowerData{
		Charge:          p.Charge,
		Mode:            string(p.Mode),
		CleaningEnabled: p.CleaningEnabled(),
	}
}

// ErrorCode classifies an operation error for the wire.
func ErrorCode(err error) string {
	var hwErr *cleaner.HardwareError
	switch {
	case errors.Is(err, cleaner.ErrInvalidCommand):
		return protocol.CodeInvalidCommand
	case errors.Is(err, cleaner.ErrInvalidDirtLevel):
		return protocol.CodeInvalidLevel
	case errors.As(err, &hwErr):
		return protocol.CodeHardware
	default:
		return protocol.CodeBadRequest
	}
}
