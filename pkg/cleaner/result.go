package cleaner

// Outcome tags the result of a recognized command.
type Outcome int

const (
	// Moved means the command was applied (a rotation or a forward step).
	Moved Outcome = iota

	// BlockedLowBattery means a forward step was refused at or below the
	// recharge threshold.
	BlockedLowBattery

	// BlockedObstacle means a forward step was refused because the infrared
	// sensor saw an obstacle ahead.
	BlockedObstacle
)

// String returns the outcome name used on the wire.
func (o Outcome) String() string {
	switch o {
	case BlockedLowBattery:
		return "blocked_low_battery"
	case BlockedObstacle:
		return "blocked_obstacle"
	default:
		return "moved"
	}
}

// Result is the tagged result of Execute.
type Result struct {
	Outcome Outcome
	// State is the robot state after the command.
	State State
	// Target is the cell the robot tried to enter. Only set for BlockedObstacle.
	Target Position
}

// Blocked reports whether the command was refused.
func (r Result) Blocked() bool {
	return r.Outcome != Moved
}

// String serializes the result to its status form:
// "!(x,y,H)" for low battery, "(x,y,H)(ox,oy)" for an obstacle, else "(x,y,H)".
func (r Result) String() string {
	switch r.Outcome {
	case BlockedLowBattery:
		return "!" + r.State.String()
	case BlockedObstacle:
		return r.State.String() + r.Target.String()
	default:
		return r.State.String()
	}
}
