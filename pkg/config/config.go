package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Bridge    BridgeConfig    `yaml:"bridge"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port         string `yaml:"port"`
	BaudRate     int    `yaml:"baud_rate"`
	RxBufferSize int    `yaml:"rx_buffer_size"`
	TxBufferSize int    `yaml:"tx_buffer_size"`
}

// SchedulerConfig contains tick scheduler configuration.
type SchedulerConfig struct {
	TaskPeriods []uint32 `yaml:"task_periods"` // ticks per trigger, one entry per task slot
	Timing      string   `yaml:"timing"`       // "classic" (traditional ~8% fast tick) or "exact"
	CPUHz       uint32   `yaml:"cpu_hz"`       // target clock for exact timing
}

// BridgeConfig contains console bridge parameters.
type BridgeConfig struct {
	StatsInterval uint32 `yaml:"stats_interval"` // ticks between stats reports (0 = disabled)
	LocalEcho     bool   `yaml:"local_echo"`
}

// TimingClassic and TimingExact are the accepted scheduler timing modes.
const (
	TimingClassic = "classic"
	TimingExact   = "exact"
)

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:         "COM3", // Default for Windows, should be "/dev/ttyUSB0" on Linux/Mac
			BaudRate:     9600,
			RxBufferSize: 64,
			TxBufferSize: 64,
		},
		Scheduler: SchedulerConfig{
			TaskPeriods: []uint32{500, 100, 1000},
			Timing:      TimingClassic,
			CPUHz:       16_000_000,
		},
		Bridge: BridgeConfig{
			StatsInterval: 1000,
			LocalEcho:     false,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.RxBufferSize == 0 {
		c.Serial.RxBufferSize = def.Serial.RxBufferSize
	}
	if c.Serial.TxBufferSize == 0 {
		c.Serial.TxBufferSize = def.Serial.TxBufferSize
	}

	if len(c.Scheduler.TaskPeriods) == 0 {
		c.Scheduler.TaskPeriods = def.Scheduler.TaskPeriods
	}
	if c.Scheduler.Timing == "" {
		c.Scheduler.Timing = def.Scheduler.Timing
	}
	if c.Scheduler.CPUHz == 0 {
		c.Scheduler.CPUHz = def.Scheduler.CPUHz
	}

	if c.Bridge.StatsInterval == 0 {
		c.Bridge.StatsInterval = def.Bridge.StatsInterval
	}
}

// Validate checks the values that have a constrained domain.
func (c *Config) Validate() error {
	switch c.Scheduler.Timing {
	case TimingClassic, TimingExact:
	default:
		return fmt.Errorf("invalid scheduler timing mode %q (want %q or %q)",
			c.Scheduler.Timing, TimingClassic, TimingExact)
	}
	if c.Serial.BaudRate < 0 {
		return fmt.Errorf("invalid baud rate %d", c.Serial.BaudRate)
	}
	return nil
}
