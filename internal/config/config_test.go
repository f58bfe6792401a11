package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.PinRecharge != 12 || cfg.PinCleaning != 13 || cfg.PinInfrared != 15 {
		t.Errorf("pins = %d/%d/%d, want 12/13/15", cfg.PinRecharge, cfg.PinCleaning, cfg.PinInfrared)
	}
	if cfg.PowerInterval != DefaultPowerInterval {
		t.Errorf("PowerInterval = %s", cfg.PowerInterval)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want none", cfg.KafkaBrokers)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CLEANER_PORT", "9000")
	t.Setenv("CLEANER_PIN_INFRARED", "21")
	t.Setenv("CLEANER_POWER_INTERVAL", "250ms")
	t.Setenv("CLEANER_KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("CLEANER_SIM_OBSTACLES", "1,2;3,4")
	t.Setenv("CLEANER_BOARD_URL", "http://board.local:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.PinInfrared != 21 {
		t.Errorf("PinInfrared = %d", cfg.PinInfrared)
	}
	if cfg.PowerInterval != 250*time.Millisecond {
		t.Errorf("PowerInterval = %s", cfg.PowerInterval)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.SimObstacles != "1,2;3,4" {
		t.Errorf("SimObstacles = %q", cfg.SimObstacles)
	}
	if cfg.BoardURL != "http://board.local:8000" {
		t.Errorf("BoardURL = %q", cfg.BoardURL)
	}
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("CLEANER_PIN_RECHARGE", "twelve")
	t.Setenv("CLEANER_POWER_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Error("Load should fail on malformed values")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Port: "8080", PinRecharge: 12, PinCleaning: 13, PinInfrared: 15, SimCharge: 50}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := []func(*Config){
		func(c *Config) { c.Port = "" },
		func(c *Config) { c.PinCleaning = 12 },
		func(c *Config) { c.PinInfrared = -1 },
		func(c *Config) { c.PowerInterval = -time.Second },
		func(c *Config) { c.SimCharge = 101 },
		func(c *Config) { c.SimDrain = -2 },
	}
	for i, mutate := range bad {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: Validate should fail", i)
		}
	}
}

func TestValidate_PinMessages(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "recharge and infrared",
			cfg:  Config{Port: "8080", PinRecharge: 12, PinCleaning: 13, PinInfrared: 12},
			want: "config: recharge and infrared share pin 12",
		},
		{
			name: "cleaning and infrared",
			cfg:  Config{Port: "8080", PinRecharge: 12, PinCleaning: 15, PinInfrared: 15},
			want: "config: cleaning and infrared share pin 15",
		},
		{
			name: "all three",
			cfg:  Config{Port: "8080", PinRecharge: 4, PinCleaning: 4, PinInfrared: 4},
			want: "config: recharge and cleaning share pin 4",
		},
		{
			name: "negative before duplicate",
			cfg:  Config{Port: "8080", PinRecharge: 12, PinCleaning: -1, PinInfrared: 12},
			want: "config: cleaning pin -1 is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Repeat to catch order-dependent messages
			for i := 0; i < 20; i++ {
				err := tt.cfg.Validate()
				if err == nil || err.Error() != tt.want {
					t.Fatalf("Validate() = %v, want %q", err, tt.want)
				}
			}
		})
	}
}
