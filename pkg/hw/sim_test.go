package hw

import (
	"errors"
	"testing"
)

const testInfrared Pin = 15

func TestSim_InfraredReportsCellAhead(t *testing.T) {
	sim := NewSim(SimConfig{
		InfraredPin: testInfrared,
		Charge:      50,
		Obstacles:   []Cell{{0, 2}},
	})

	level, err := sim.Read(testInfrared)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if level != Low {
		t.Errorf("Read at origin = %v, want LOW", level)
	}

	if err := sim.Translate(); err != nil {
		t.Fatalf("Translate error: %v", err)
	}

	level, _ = sim.Read(testInfrared)
	if level != High {
		t.Errorf("Read facing (0,2) = %v, want HIGH", level)
	}

	if err := sim.Translate(); !errors.Is(err, ErrCollision) {
		t.Errorf("Translate into obstacle: got %v, want ErrCollision", err)
	}
}

func TestSim_RotateChangesSensedCell(t *testing.T) {
	sim := NewSim(SimConfig{InfraredPin: testInfrared, Obstacles: []Cell{{1, 0}}})

	if err := sim.Rotate("r"); err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	level, _ := sim.Read(testInfrared)
	if level != High {
		t.Error("obstacle east of origin should be sensed after turning right")
	}

	sim.Rotate("l")
	sim.Rotate("l")
	_, dir := sim.Pose()
	if dir != 3 {
		t.Errorf("dir = %d, want 3 (west)", dir)
	}

	if err := sim.Rotate("u"); err == nil {
		t.Error("Rotate with unknown direction should fail")
	}
}

func TestSim_DrainAndClamp(t *testing.T) {
	sim := NewSim(SimConfig{InfraredPin: testInfrared, Charge: 3, Drain: 2})

	sim.Translate()
	sim.Translate()

	charge, _ := sim.ChargeLeft()
	if charge != 0 {
		t.Errorf("charge = %d, want 0", charge)
	}

	sim.SetCharge(150)
	charge, _ = sim.ChargeLeft()
	if charge != 100 {
		t.Errorf("charge = %d, want 100", charge)
	}
}

func TestSim_ResetAndOutputs(t *testing.T) {
	sim := NewSim(SimConfig{InfraredPin: testInfrared, Charge: 100})
	sim.Rotate("r")
	sim.Translate()
	sim.Reset()

	pos, dir := sim.Pose()
	if pos != (Cell{}) || dir != 0 {
		t.Errorf("Pose after Reset = %v/%d, want origin/0", pos, dir)
	}

	if err := sim.Write(12, High); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if sim.Output(12) != High {
		t.Error("output 12 should be latched HIGH")
	}
	if err := sim.Write(testInfrared, High); err == nil {
		t.Error("writing the infrared input should fail")
	}
}

func TestParseObstacles(t *testing.T) {
	cells, err := ParseObstacles(" 1,2 ; -3,4;")
	if err != nil {
		t.Fatalf("ParseObstacles error: %v", err)
	}
	if len(cells) != 2 || cells[0] != (Cell{1, 2}) || cells[1] != (Cell{-3, 4}) {
		t.Errorf("cells = %v", cells)
	}

	if cells, _ := ParseObstacles(""); len(cells) != 0 {
		t.Errorf("empty input: got %v", cells)
	}

	for _, bad := range []string{"1", "a,2", "1,b"} {
		if _, err := ParseObstacles(bad); err == nil {
			t.Errorf("ParseObstacles(%q) should fail", bad)
		}
	}
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()
	m.Write(12, High)
	m.Read(15)
	m.ChargeLeft()
	m.Rotate("l")
	m.Translate()

	want := []string{"Write(GPIO12,HIGH)", "Read(GPIO15)", "ChargeLeft()", "Rotate(l)", "Translate()"}
	calls := m.Calls()
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i, c := range calls {
		if c.String() != want[i] {
			t.Errorf("call %d = %s, want %s", i, c, want[i])
		}
	}

	if m.Level(12) != High {
		t.Error("Write should latch the level")
	}
	if n := len(m.CallsTo("Write")); n != 1 {
		t.Errorf("CallsTo(Write) = %d, want 1", n)
	}

	m.Reset()
	if len(m.Calls()) != 0 {
		t.Error("Reset should clear calls")
	}
}
