package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Versifine/stride/internal/app"
	"github.com/Versifine/stride/internal/camera"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/level"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/player"
	"github.com/Versifine/stride/internal/scheduler"
)

// game holds the wired simulation: one level, one player, one camera.
type game struct {
	cfg     *config.Config
	bus     *event.Bus
	sched   *scheduler.Scheduler
	world   *physics.World
	spawn   physics.Vec3
	sampler *input.Sampler
	rig     *camera.Rig
	ctrl    *player.Controller
	flow    *app.Machine
}

func newGame(cfg *config.Config, keys input.KeySource) (*game, error) {
	lvl := level.Default()
	if cfg.Level.Path != "" {
		loaded, err := level.Load(cfg.Level.Path)
		if err != nil {
			return nil, err
		}
		lvl = loaded
	}
	world, err := lvl.Build()
	if err != nil {
		return nil, fmt.Errorf("build level %q: %w", lvl.Name, err)
	}
	slog.Info("Level loaded", "name", lvl.Name, "colliders", len(world.Colliders()))

	g := &game{
		cfg:     cfg,
		bus:     event.NewBus(),
		sched:   scheduler.New(),
		world:   world,
		spawn:   lvl.SpawnPoint(),
		sampler: input.NewSampler(cfg.Input.Smoothing),
		rig:     camera.New(cfg.Camera),
	}
	g.flow = app.New(g.bus)

	body := physics.NewBody(g.spawn, physics.DefaultHalfWidth, physics.DefaultHeight)
	g.ctrl = player.New(body, world, g.rig, g.sched.Clock(), g.sampler,
		player.WithTuning(cfg.Player),
		player.WithPublisher(g.bus),
	)
	g.rig.Snap(g.spawn)

	g.flow.OnEnter(app.StateGame, func(app.State) {
		g.sampler.Reset()
		g.ctrl.Reset(g.spawn)
		g.rig.Snap(g.spawn)
	})
	g.subscribeLogs()

	g.sched.Register("app", func() {
		g.flow.Tick(g.sched.Clock().Delta())
	})
	g.sampler.Activate(g.sched, keys)
	g.ctrl.Activate(gameOnly{r: g.sched, flow: g.flow})
	g.rig.Activate(g.sched, body)
	return g, nil
}

// configReloaded is the config watcher callback. It hands the result to the
// frame loop, which applies it and publishes config.reload.
func (g *game) configReloaded(path string) func(*config.Config, error) {
	return func(next *config.Config, err error) {
		g.sched.Post(func() {
			if err != nil {
				slog.Warn("Config reload rejected", "path", path, "error", err)
			} else {
				g.applyConfig(next)
			}
			g.bus.Publish(event.EventConfigReload, event.ConfigReloadEvent{Path: path, Err: err})
		})
	}
}

// applyConfig takes a reloaded config. It must run on the frame loop.
func (g *game) applyConfig(cfg *config.Config) {
	g.ctrl.SetTuning(cfg.Player)
	g.cfg.Player = cfg.Player
	slog.Info("Player tuning reloaded", "speed", cfg.Player.Speed, "jump_force", cfg.Player.JumpForce, "gravity", cfg.Player.Gravity)
}

func (g *game) subscribeLogs() {
	for _, name := range []string{event.EventJump, event.EventLand, event.EventDashStart, event.EventDashEnd, event.EventRespawn} {
		g.bus.Subscribe(name, func(raw any) {
			evt, ok := raw.(event.MotionEvent)
			if !ok {
				return
			}
			slog.Debug("Motion event", "event", name, "tick", evt.Tick,
				"x", evt.X, "y", evt.Y, "z", evt.Z, "grounded", evt.Grounded)
		})
	}
	g.bus.Subscribe(event.EventStateChanged, func(raw any) {
		if evt, ok := raw.(event.StateChangedEvent); ok {
			slog.Debug("Screen changed", "from", evt.From, "to", evt.To)
		}
	})
}

// gameOnly registers steps that only run while a game is being played.
type gameOnly struct {
	r    player.Registrar
	flow *app.Machine
}

func (g gameOnly) Register(name string, fn func()) {
	g.r.Register(name, func() {
		if g.flow.State() == app.StateGame {
			fn()
		}
	})
}

// runHeadless skips the menus and steps the loop a fixed number of frames
// without waiting on the wall clock.
func (g *game) runHeadless(ticks int) player.MotionState {
	if err := g.flow.Fire(app.TriggerPlay); err == nil {
		_ = g.flow.Fire(app.TriggerSkip)
	}
	dt := time.Second / time.Duration(g.cfg.Loop.TickRate)
	for i := 0; i < ticks; i++ {
		g.sched.Step(dt)
	}
	st := g.ctrl.State()
	pos := g.ctrl.Entity().Position()
	slog.Info("Headless run finished", "ticks", ticks,
		"x", pos.X, "y", pos.Y, "z", pos.Z,
		"grounded", st.Grounded, "jump_charges", st.JumpCharges)
	return st
}
