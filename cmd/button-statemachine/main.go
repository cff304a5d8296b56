// Command button-statemachine cycles a traffic light RED -> YELLOW -> GREEN
// on each press of a push button, showing a desktop notification and
// publishing every transition to MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.bug.st/cleanup"
	"go.uber.org/zap"

	"github.com/sweeney/gpio-trafficlight/internal/config"
	"github.com/sweeney/gpio-trafficlight/internal/gpio"
	"github.com/sweeney/gpio-trafficlight/internal/lights"
	"github.com/sweeney/gpio-trafficlight/internal/logging"
	"github.com/sweeney/gpio-trafficlight/internal/logic"
	"github.com/sweeney/gpio-trafficlight/internal/mqtt"
	"github.com/sweeney/gpio-trafficlight/internal/notify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// SIGINT is caught from here on, including during the broker connect wait.
	ctx, cancel := cleanup.InterruptableContext(context.Background())
	defer cancel()

	program := filepath.Base(os.Args[0])

	cfg, err := config.Load(program)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	if cfg.File != "" {
		logger.Debugw("Loaded config file", "path", cfg.File)
	}

	notifier := newNotifier(cfg, program, logger)

	publisher, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if ctx.Err() != nil {
		logger.Infow("Interrupted during startup")
		return nil
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	logger.Infow("Started", "chip", cfg.Chip, "button", cfg.Pins.Button, "poll", cfg.PollInterval)
	return serve(ctx, gpio.CdevDriver{}, cfg, notifier, publisher, logger, ticker.C, time.Now)
}

func newNotifier(cfg config.Config, program string, logger *zap.SugaredLogger) notify.Notifier {
	if !cfg.Notify {
		return notify.Nop{}
	}
	d, err := notify.NewDesktop(program, logger)
	if err != nil {
		logger.Warnw("Desktop notifications unavailable", "error", err)
		return notify.Nop{}
	}
	return d
}

func newPublisher(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (mqtt.Publisher, error) {
	if cfg.MQTTBroker == "" {
		return mqtt.Disabled{}, nil
	}
	p, err := mqtt.NewRealPublisher(ctx, cfg.MQTTBroker, cfg.MQTTClientID, logger)
	if err != nil {
		return nil, fmt.Errorf("init mqtt: %w", err)
	}
	return p, nil
}

// serve owns the GPIO session: every line acquired here is released when
// it returns, whichever way it returns.
func serve(ctx context.Context, driver gpio.Driver, cfg config.Config, notifier notify.Notifier, publisher mqtt.Publisher, logger *zap.SugaredLogger, tick <-chan time.Time, now func() time.Time) error {
	return gpio.WithSession(driver, cfg.Chip, cfg.Consumer, logger, func(m *gpio.Manager) error {
		board, err := lights.Acquire(m, cfg.Pins, notifier, cfg.Icon, logger)
		if err != nil {
			return err
		}
		button, err := m.Acquire("button", cfg.Pins.Button, gpio.Input, 0)
		if err != nil {
			return fmt.Errorf("acquire button: %w", err)
		}
		return runLoop(ctx, cfg.Consumer, button, board, publisher, logger, tick, now)
	})
}

// brokerConnected reports false for publishers that cannot tell.
func brokerConnected(p mqtt.Publisher) bool {
	cs, ok := p.(mqtt.ConnectionStatus)
	return ok && cs.IsConnected()
}

func runLoop(ctx context.Context, program string, button *gpio.Line, out logic.Outputs, publisher mqtt.Publisher, logger *zap.SugaredLogger, tick <-chan time.Time, now func() time.Time) error {
	initial, err := button.Value()
	if err != nil {
		return fmt.Errorf("read button: %w", err)
	}
	controller := logic.NewController(initial)

	shutdown := func(reason string) {
		event := mqtt.SystemEvent{
			Timestamp: now(),
			Event:     "SHUTDOWN",
			Reason:    reason,
			Program:   program,
			State:     controller.State(),
			Presses:   controller.Presses(),
			Retained:  true,
		}
		if err := publisher.PublishSystem(event); err != nil {
			logger.Warnw("Failed to publish shutdown event", "error", err)
		}
	}

	startup := mqtt.SystemEvent{
		Timestamp: now(),
		Event:     "STARTUP",
		Program:   program,
		State:     controller.State(),
		Retained:  true,
	}
	if err := publisher.PublishSystem(startup); err != nil {
		logger.Warnw("Failed to publish startup event", "error", err)
	}
	logger.Infow("Waiting for button presses", "state", controller.State(), "initial", initial, "mqtt_connected", brokerConnected(publisher))

	for {
		select {
		case <-ctx.Done():
			logger.Infow("Interrupted, shutting down", "state", controller.State(), "presses", controller.Presses(), "mqtt_connected", brokerConnected(publisher))
			shutdown("interrupt")
			return nil

		case <-tick:
			v, err := button.Value()
			if err != nil {
				shutdown("error")
				return fmt.Errorf("read button: %w", err)
			}
			t, fired, err := controller.Sample(v, out)
			if err != nil {
				shutdown("error")
				return err
			}
			if !fired {
				continue
			}
			logger.Infow("State changed", "from", t.From, "to", t.To, "presses", controller.Presses())

			event := logic.Event{Timestamp: now(), From: t.From, To: t.To, Presses: controller.Presses()}
			if err := publisher.Publish(event); err != nil {
				logger.Warnw("Failed to publish transition", "error", err)
			}
		}
	}
}
