package cleaner

import (
	"errors"
	"testing"

	"github.com/teslashibe/go-cleaner/pkg/hw"
)

func TestManageCleaningSystem(t *testing.T) {
	tests := []struct {
		charge int
		mode   PowerMode
		want   []string
	}{
		{20, PowerNormal, []string{"Write(GPIO12,LOW)", "Write(GPIO13,HIGH)"}},
		{11, PowerNormal, []string{"Write(GPIO12,LOW)", "Write(GPIO13,HIGH)"}},
		{10, PowerLowBattery, []string{"Write(GPIO12,HIGH)", "Write(GPIO13,LOW)"}},
		{7, PowerLowBattery, []string{"Write(GPIO12,HIGH)", "Write(GPIO13,LOW)"}},
	}

	for _, tt := range tests {
		mock := hw.NewMock()
		r := New(mock, mock, mock)
		mock.SetCharge(tt.charge)
		before := r.State()

		report, err := r.ManageCleaningSystem()
		if err != nil {
			t.Fatalf("charge %d: error: %v", tt.charge, err)
		}
		if report.Mode != tt.mode || report.Charge != tt.charge {
			t.Errorf("charge %d: report = %+v", tt.charge, report)
		}
		if report.CleaningEnabled() != (tt.mode == PowerNormal) {
			t.Errorf("charge %d: CleaningEnabled() = %v", tt.charge, report.CleaningEnabled())
		}

		writes := mock.CallsTo("Write")
		if len(writes) != len(tt.want) {
			t.Fatalf("charge %d: writes = %v, want %v", tt.charge, writes, tt.want)
		}
		for i := range writes {
			if writes[i].String() != tt.want[i] {
				t.Errorf("charge %d: write %d = %s, want %s", tt.charge, i, writes[i], tt.want[i])
			}
		}
		if r.State() != before {
			t.Errorf("charge %d: state changed", tt.charge)
		}
	}
}

func TestManageCleaningSystem_WriteFailure(t *testing.T) {
	mock := hw.NewMock()
	r := New(mock, mock, mock)
	mock.WriteErr = errors.New("bus error")

	_, err := r.ManageCleaningSystem()
	var hwErr *HardwareError
	if !errors.As(err, &hwErr) {
		t.Fatalf("err = %v, want HardwareError", err)
	}
	if hwErr.Op != "write recharge led" {
		t.Errorf("Op = %q, want write recharge led", hwErr.Op)
	}
	if n := len(mock.CallsTo("Write")); n != 1 {
		t.Errorf("writes = %d, want 1 (stop at first failure)", n)
	}
}

func TestManageCleaningSystem_CustomPins(t *testing.T) {
	mock := hw.NewMock()
	r := New(mock, mock, mock, WithPins(Pins{RechargeLED: 1, CleaningSystem: 2, Infrared: 3}))
	mock.SetCharge(5)

	r.ManageCleaningSystem()
	if mock.Level(1) != hw.High || mock.Level(2) != hw.Low {
		t.Errorf("levels = %v/%v, want HIGH/LOW", mock.Level(1), mock.Level(2))
	}
}
