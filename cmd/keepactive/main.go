package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/stigoleg/keep-active/internal/config"
	"github.com/stigoleg/keep-active/internal/delay"
	"github.com/stigoleg/keep-active/internal/keepalive"
	"github.com/stigoleg/keep-active/internal/logging"
	"github.com/stigoleg/keep-active/internal/platform"
	"github.com/stigoleg/keep-active/internal/platform/native"
	"github.com/stigoleg/keep-active/internal/rules"
	"github.com/stigoleg/keep-active/internal/simulator"
	"github.com/stigoleg/keep-active/internal/ui"
)

const appVersion = "1.0.0"

const cleanupTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, openDevice))
}

func openDevice() (platform.Device, error) {
	dev, err := native.New()
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// run executes the program and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, open func() (platform.Device, error)) int {
	cfg, err := config.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, config.FormatError(err))
		fmt.Fprintln(stderr, config.Usage(appVersion))
		return 1
	}
	if cfg.ShowHelp {
		fmt.Fprintln(stdout, config.Usage(appVersion))
		return 0
	}
	if cfg.ShowVersion {
		fmt.Fprintf(stdout, "%s %s\n", config.AppName, appVersion)
		return 0
	}

	if err := cfg.LoadSettings(); err != nil {
		fmt.Fprintln(stderr, config.FormatError(err))
		return 1
	}

	rs, err := rules.Load(cfg.RulesFile)
	if err != nil {
		var perr *rules.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintln(stdout, config.FormatError(err))
			fmt.Fprintln(stdout, config.RulesHelp(cfg.RulesFile))
			return 0
		}
		fmt.Fprintln(stderr, config.FormatError(err))
		return 1
	}

	logger, closeLog, err := logging.New(cfg.LogFile, cfg.Settings.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, config.FormatError(err))
		return 1
	}

	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintln(stderr, config.FormatError(err))
		}
	}()

	cleanup := keepalive.NewCleanupManager(cleanupTimeout, logger)
	defer func() {
		for _, err := range cleanup.Execute() {
			fmt.Fprintln(stderr, config.FormatError(err))
		}
	}()

	logger.Info("starting",
		zap.String("version", appVersion),
		zap.String("rules", cfg.RulesFile),
		zap.Int("windows", rs.Len()),
		zap.Duration("idle", cfg.IdleThreshold),
		zap.Bool("ui", cfg.UI))

	dev, err := open()
	if err != nil {
		logger.Error("pointer backend unavailable", zap.Error(err))
		fmt.Fprintln(stderr, config.FormatError(fmt.Errorf("pointer backend: %w", err)))
		return 1
	}
	logger.Info("pointer backend ready", zap.String("backend", dev.Name()))

	delays, err := delay.New(cfg.DelayConfig(), nil)
	if err != nil {
		fmt.Fprintln(stderr, config.FormatError(err))
		return 1
	}

	sim, err := simulator.New(rs, delays, dev, dev, cfg.SimulatorConfig(),
		simulator.WithLogger(logger))
	if err != nil {
		logger.Error("simulator init failed", zap.Error(err))
		fmt.Fprintln(stderr, config.FormatError(err))
		return 1
	}

	keeper := keepalive.New(sim, keepalive.WithLogger(logger))
	cleanup.RegisterFunc("keeper", keeper.Stop)

	ctx, stop := signal.NotifyContext(context.Background(), getSignalsForPlatform()...)
	defer stop()

	if !cfg.UI {
		if err := keeper.Run(ctx); err != nil {
			logger.Error("keeper failed", zap.Error(err))
			fmt.Fprintln(stderr, config.FormatError(err))
			return 1
		}
		logger.Info("shutting down")
		return 0
	}

	if err := keeper.Start(ctx); err != nil {
		fmt.Fprintln(stderr, config.FormatError(err))
		return 1
	}

	p := tea.NewProgram(
		ui.NewModel(ctx, keeper, rs, cfg.RulesFile),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("status screen failed", zap.Error(err))
		fmt.Fprintln(stderr, config.FormatError(err))
		return 1
	}
	logger.Info("shutting down")
	return 0
}
