// Command blink-leds switches the red, yellow and green LEDs on one at a
// time until interrupted.
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
	"github.com/sweeney/gpio-trafficlight/internal/notify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := cleanup.InterruptableContext(context.Background())
	defer cancel()

	cfg, err := config.Load(filepath.Base(os.Args[0]))
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ticker := time.NewTicker(cfg.BlinkInterval)
	defer ticker.Stop()

	logger.Infow("Started", "chip", cfg.Chip, "interval", cfg.BlinkInterval)
	return serve(ctx, gpio.CdevDriver{}, cfg, logger, ticker.C)
}

func serve(ctx context.Context, driver gpio.Driver, cfg config.Config, logger *zap.SugaredLogger, tick <-chan time.Time) error {
	return gpio.WithSession(driver, cfg.Chip, cfg.Consumer, logger, func(m *gpio.Manager) error {
		board, err := lights.Acquire(m, cfg.Pins, notify.Nop{}, cfg.Icon, logger)
		if err != nil {
			return err
		}
		return blink(ctx, board, logger, tick)
	})
}

func blink(ctx context.Context, sw logic.Switch, logger *zap.SugaredLogger, tick <-chan time.Time) error {
	seq := logic.NewSequencer(logic.Lights()...)
	if err := seq.Start(sw); err != nil {
		return err
	}

	var steps int
	for {
		select {
		case <-ctx.Done():
			logger.Infow("Interrupted, shutting down", "light", seq.Current(), "steps", steps)
			return nil
		case <-tick:
			if err := seq.Advance(sw); err != nil {
				return err
			}
			steps++
			logger.Debugw("Advanced", "light", seq.Current())
		}
	}
}
