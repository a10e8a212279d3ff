package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "COM3", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, 64, cfg.Serial.RxBufferSize)
	assert.Equal(t, 64, cfg.Serial.TxBufferSize)
	assert.Equal(t, []uint32{500, 100, 1000}, cfg.Scheduler.TaskPeriods)
	assert.Equal(t, TimingClassic, cfg.Scheduler.Timing)
	assert.Equal(t, uint32(16_000_000), cfg.Scheduler.CPUHz)
	assert.Equal(t, uint32(1000), cfg.Bridge.StatsInterval)
	assert.False(t, cfg.Bridge.LocalEcho)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "COM3", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB0"
  baud_rate: 115200
  rx_buffer_size: 128
  tx_buffer_size: 32

scheduler:
  task_periods: [250, 50]
  timing: exact
  cpu_hz: 8000000

bridge:
  stats_interval: 5000
  local_echo: true
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, 128, cfg.Serial.RxBufferSize)
	assert.Equal(t, 32, cfg.Serial.TxBufferSize)
	assert.Equal(t, []uint32{250, 50}, cfg.Scheduler.TaskPeriods)
	assert.Equal(t, TimingExact, cfg.Scheduler.Timing)
	assert.Equal(t, uint32(8_000_000), cfg.Scheduler.CPUHz)
	assert.Equal(t, uint32(5000), cfg.Bridge.StatsInterval)
	assert.True(t, cfg.Bridge.LocalEcho)
}

func TestLoad_PartialYAML_FillsDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("serial:\n  port: \"/dev/ttyACM1\"\n")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM1", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, []uint32{500, 100, 1000}, cfg.Scheduler.TaskPeriods)
	assert.Equal(t, TimingClassic, cfg.Scheduler.Timing)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("serial: [this is not a mapping")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = Load(tmpfile.Name())
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Serial.Port = "/dev/ttyS7"
	cfg.Scheduler.Timing = TimingExact
	cfg.Scheduler.TaskPeriods = []uint32{10, 20, 30}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Scheduler.Timing = "approximate"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Serial.BaudRate = -1
	assert.Error(t, cfg.Validate())
}
