package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("button-statemachine")

	assert.Equal(t, "gpiochip0", cfg.Chip)
	assert.Equal(t, "button-statemachine", cfg.Consumer)
	assert.Equal(t, Pins{Red: 0, Yellow: 1, Green: 2, Button: 3}, cfg.Pins)
	assert.Equal(t, PollInterval, cfg.PollInterval)
	assert.Equal(t, BlinkInterval, cfg.BlinkInterval)
	assert.Equal(t, "notification-message-IM", cfg.Icon)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Notify)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Equal(t, "button-statemachine", cfg.MQTTClientID)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("blink-leds", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default("blink-leds"), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`
log_level: debug
log_development: true
notify: false
mqtt_broker: tcp://localhost:1883
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gpio-trafficlight.yaml"), body, 0o644))

	cfg, err := Load("button-statemachine", dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDevelopment)
	assert.False(t, cfg.Notify)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, filepath.Join(dir, "gpio-trafficlight.yaml"), cfg.File)
}

func TestLoadPinsAreNotConfigurable(t *testing.T) {
	dir := t.TempDir()
	body := []byte("chip: gpiochip7\npins:\n  red: 17\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gpio-trafficlight.yaml"), body, 0o644))

	cfg, err := Load("button-statemachine", dir)
	require.NoError(t, err)

	assert.Equal(t, "gpiochip0", cfg.Chip)
	assert.Equal(t, PinRed, cfg.Pins.Red)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gpio-trafficlight.yaml"), []byte("log_level: warn\n"), 0o644))
	t.Setenv("GPIO_TRAFFICLIGHT_LOG_LEVEL", "error")
	t.Setenv("GPIO_TRAFFICLIGHT_MQTT_CLIENT_ID", "lights-1")

	cfg, err := Load("button-statemachine", dir)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "lights-1", cfg.MQTTClientID)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gpio-trafficlight.yaml"), []byte("log_level: [unterminated\n"), 0o644))

	_, err := Load("button-statemachine", dir)
	assert.Error(t, err)
}

func TestLoadBrokerRequiresClientID(t *testing.T) {
	dir := t.TempDir()
	body := []byte("mqtt_broker: tcp://localhost:1883\nmqtt_client_id: \"\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gpio-trafficlight.yaml"), body, 0o644))

	_, err := Load("button-statemachine", dir)
	assert.ErrorContains(t, err, "mqtt_client_id")
}
