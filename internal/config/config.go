// Package config provides configuration helpers for go-cleaner commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultPort          = "8080"
	DefaultLogLevel      = "info"
	DefaultPinRecharge   = 12
	DefaultPinCleaning   = 13
	DefaultPinInfrared   = 15
	DefaultPowerInterval = 5 * time.Second
	DefaultMQTTTopic     = "cleaner"
	DefaultKafkaTopic    = "cleaner.events"
	DefaultSimCharge     = 100
	DefaultSimDrain      = 1
)

// Config is the runtime configuration of the cleaner service.
type Config struct {
	Port     string
	LogLevel string
	// RobotID identifies this robot in telemetry. Generated when empty.
	RobotID string

	PinRecharge int
	PinCleaning int
	PinInfrared int

	// PowerInterval is how often the power monitor runs. Zero disables it.
	PowerInterval time.Duration

	MQTTBroker string
	MQTTTopic  string

	KafkaBrokers []string
	KafkaTopic   string

	// BoardURL is the board daemon address. The simulator is used when empty.
	BoardURL string

	SimCharge    int
	SimDrain     int
	SimObstacles string
}

// Load reads the configuration from CLEANER_* environment variables.
func Load() (Config, error) {
	var errs []error
	cfg := Config{
		Port:          Env("CLEANER_PORT", DefaultPort),
		LogLevel:      Env("CLEANER_LOG_LEVEL", DefaultLogLevel),
		RobotID:       Env("CLEANER_ROBOT_ID", ""),
		PinRecharge:   envInt("CLEANER_PIN_RECHARGE", DefaultPinRecharge, &errs),
		PinCleaning:   envInt("CLEANER_PIN_CLEANING", DefaultPinCleaning, &errs),
		PinInfrared:   envInt("CLEANER_PIN_INFRARED", DefaultPinInfrared, &errs),
		PowerInterval: envDuration("CLEANER_POWER_INTERVAL", DefaultPowerInterval, &errs),
		MQTTBroker:    Env("CLEANER_MQTT_BROKER", ""),
		MQTTTopic:     Env("CLEANER_MQTT_TOPIC", DefaultMQTTTopic),
		KafkaBrokers:  List(Env("CLEANER_KAFKA_BROKERS", "")),
		KafkaTopic:    Env("CLEANER_KAFKA_TOPIC", DefaultKafkaTopic),
		BoardURL:      Env("CLEANER_BOARD_URL", ""),
		SimCharge:     envInt("CLEANER_SIM_CHARGE", DefaultSimCharge, &errs),
		SimDrain:      envInt("CLEANER_SIM_DRAIN", DefaultSimDrain, &errs),
		SimObstacles:  Env("CLEANER_SIM_OBSTACLES", ""),
	}
	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and pin uniqueness.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port required")
	}
	pins := map[int]string{}
	for _, p := range []struct {
		name string
		pin  int
	}{
		{"recharge", c.PinRecharge},
		{"cleaning", c.PinCleaning},
		{"infrared", c.PinInfrared},
	} {
		if p.pin < 0 {
			return fmt.Errorf("config: %s pin %d is negative", p.name, p.pin)
		}
		if other, dup := pins[p.pin]; dup {
			return fmt.Errorf("config: %s and %s share pin %d", other, p.name, p.pin)
		}
		pins[p.pin] = p.name
	}
	if c.PowerInterval < 0 {
		return fmt.Errorf("config: power interval %s is negative", c.PowerInterval)
	}
	if c.SimCharge < 0 || c.SimCharge > 100 {
		return fmt.Errorf("config: sim charge %d outside 0..100", c.SimCharge)
	}
	if c.SimDrain < 0 {
		return fmt.Errorf("config: sim drain %d is negative", c.SimDrain)
	}
	return nil
}

// Env returns the value of key, or def when unset or empty.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// List splits a comma-separated value, dropping blanks.
func List(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return n
}

func envDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return d
}
