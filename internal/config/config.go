// Package config builds the immutable configuration for the traffic light
// demos. The pin mapping and timing are fixed; only ambient settings
// (logging, notifications, MQTT) are read from a file or the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Pins is the fixed wiring of the demo board.
type Pins struct {
	Red    int
	Yellow int
	Green  int
	Button int
}

const (
	// Chip is the controller the demo board is wired to.
	// There should be a corresponding character device in /dev.
	Chip = "gpiochip0"

	PinRed    = 0
	PinYellow = 1
	PinGreen  = 2
	PinButton = 3

	PollInterval  = 10 * time.Millisecond
	BlinkInterval = 200 * time.Millisecond

	NotificationIcon = "notification-message-IM"
)

const (
	configName = "gpio-trafficlight"
	configType = "yaml"
	envPrefix  = "GPIO_TRAFFICLIGHT"

	keyLogLevel       = "log_level"
	keyLogDevelopment = "log_development"
	keyNotify         = "notify"
	keyMQTTBroker     = "mqtt_broker"
	keyMQTTClientID   = "mqtt_client_id"

	defaultLogLevel = "info"
)

// DefaultPaths are searched, in order, for gpio-trafficlight.yaml.
var DefaultPaths = []string{"/etc/gpio-trafficlight", "."}

// Config is passed by value and never modified after Load.
type Config struct {
	Chip     string
	Consumer string
	Pins     Pins

	PollInterval  time.Duration
	BlinkInterval time.Duration
	Icon          string

	LogLevel       string
	LogDevelopment bool
	Notify         bool
	MQTTBroker     string // empty disables MQTT
	MQTTClientID   string

	// File is the config file that was read, or empty.
	File string
}

// Default returns the configuration with every ambient setting at its
// default. program labels the requested lines and the MQTT client.
func Default(program string) Config {
	return Config{
		Chip:     Chip,
		Consumer: program,
		Pins: Pins{
			Red:    PinRed,
			Yellow: PinYellow,
			Green:  PinGreen,
			Button: PinButton,
		},
		PollInterval:  PollInterval,
		BlinkInterval: BlinkInterval,
		Icon:          NotificationIcon,
		LogLevel:      defaultLogLevel,
		Notify:        true,
		MQTTClientID:  program,
	}
}

// Load reads ambient settings from an optional gpio-trafficlight.yaml in
// paths (DefaultPaths if none are given) and from GPIO_TRAFFICLIGHT_*
// environment variables, which take precedence.
func Load(program string, paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	cfg := Default(program)
	v.SetDefault(keyLogLevel, cfg.LogLevel)
	v.SetDefault(keyLogDevelopment, cfg.LogDevelopment)
	v.SetDefault(keyNotify, cfg.Notify)
	v.SetDefault(keyMQTTBroker, cfg.MQTTBroker)
	v.SetDefault(keyMQTTClientID, cfg.MQTTClientID)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.File = v.ConfigFileUsed()
	cfg.LogLevel = v.GetString(keyLogLevel)
	cfg.LogDevelopment = v.GetBool(keyLogDevelopment)
	cfg.Notify = v.GetBool(keyNotify)
	cfg.MQTTBroker = v.GetString(keyMQTTBroker)
	cfg.MQTTClientID = v.GetString(keyMQTTClientID)

	if cfg.MQTTBroker != "" && cfg.MQTTClientID == "" {
		return Config{}, fmt.Errorf("config: %s is required when %s is set", keyMQTTClientID, keyMQTTBroker)
	}

	return cfg, nil
}
