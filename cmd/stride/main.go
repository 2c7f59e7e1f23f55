package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Versifine/stride/internal/audio"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/debug"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/logger"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

const defaultHeadlessTicks = 600

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file (.yaml or .toml)")
	headless := flag.Bool("headless", false, "run without the terminal view")
	ticks := flag.Int("ticks", 0, "frames to run headless (default: script length or 600)")
	script := flag.String("script", "", `headless input script, e.g. "ArrowUp:30,ArrowUp+Space:1,idle:20"`)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	missing := errors.Is(err, os.ErrNotExist)
	if err != nil && !missing {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if missing {
		cfg = config.Default()
	}

	interactive := !*headless && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	logFile := cfg.Logging.File
	if interactive && logFile == "" {
		logFile = "stride.log"
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   logFile,
	})
	defer logger.Close()
	if missing {
		slog.Warn("Config file not found, using defaults", "path", *configPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interactive {
		err = runInteractive(ctx, cfg, *configPath, !missing)
	} else {
		err = runHeadless(cfg, *ticks, *script)
	}
	if err != nil {
		slog.Error("Stride stopped", "error", err)
		os.Exit(1)
	}
}

func runHeadless(cfg *config.Config, ticks int, script string) error {
	steps, err := input.ParseScript(script)
	if err != nil {
		return err
	}
	src := input.NewScript(steps)
	if ticks <= 0 {
		ticks = src.TotalTicks()
	}
	if ticks <= 0 {
		ticks = defaultHeadlessTicks
	}

	g, err := newGame(cfg, src)
	if err != nil {
		return err
	}
	g.runHeadless(ticks)
	return nil
}

func runInteractive(ctx context.Context, cfg *config.Config, configPath string, watch bool) error {
	keyboard := input.NewKeyboard(time.Duration(cfg.Input.HoldWindowMS) * time.Millisecond)
	g, err := newGame(cfg, keyboard)
	if err != nil {
		return err
	}

	if cfg.Audio.Enabled {
		sm := audio.NewSoundManager(cfg.Audio.Volume)
		if err := sm.Initialize(); err != nil {
			slog.Warn("Audio unavailable", "error", err)
		} else {
			sm.Subscribe(g.bus)
			defer sm.Close()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watch {
		if err := config.Watch(ctx, configPath, g.configReloaded(configPath)); err != nil {
			slog.Warn("Config watcher unavailable", "error", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	console := debug.NewConsole(screen, keyboard, g.ctrl, g.rig, g.flow, g.world, g.sched)
	console.Activate(g.sched)

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- g.sched.Run(ctx, cfg.Loop.TickRate)
	}()

	if err := console.Run(ctx); err != nil {
		cancel()
		<-loopErr
		return err
	}
	cancel()
	return <-loopErr
}
