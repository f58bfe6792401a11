package cleaner

import "github.com/teslashibe/go-cleaner/pkg/hw"

// PowerMode is the state of the power subsystem.
type PowerMode string

const (
	PowerNormal     PowerMode = "normal"
	PowerLowBattery PowerMode = "low_battery"
)

// PowerReport describes the outcome of ManageCleaningSystem.
type PowerReport struct {
	Charge int       `json:"charge"`
	Mode   PowerMode `json:"mode"`
}

// CleaningEnabled reports whether the cleaning system was switched on.
func (p PowerReport) CleaningEnabled() bool {
	return p.Mode == PowerNormal
}

func lowBattery(charge int) bool {
	return charge <= LowBatteryThreshold
}

// ManageCleaningSystem reads the battery and drives the recharge LED and the
// cleaning system accordingly. The recharge LED is always written first.
// Robot state is not modified.
func (r *Robot) ManageCleaningSystem() (PowerReport, error) {
	charge, err := r.battery.ChargeLeft()
	if err != nil {
		return PowerReport{}, hardwareErr("read battery", err)
	}

	report := PowerReport{Charge: charge, Mode: PowerNormal}
	led, cleaning := hw.Low, hw.High
	if lowBattery(charge) {
		report.Mode = PowerLowBattery
		led, cleaning = hw.High, hw.Low
	}

	if err := r.gpio.Write(r.pins.RechargeLED, led); err != nil {
		return report, hardwareErr("write recharge led", err)
	}
	if err := r.gpio.Write(r.pins.CleaningSystem, cleaning); err != nil {
		return report, hardwareErr("write cleaning system", err)
	}

	if report.Mode == PowerLowBattery {
		r.log.Warn("battery low, cleaning system disabled", "charge", charge)
	} else {
		r.log.Debug("cleaning system enabled", "charge", charge)
	}
	return report, nil
}
