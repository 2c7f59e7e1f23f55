package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Versifine/stride/internal/camera"
	"github.com/Versifine/stride/internal/player"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Loop    LoopConfig    `yaml:"loop" toml:"loop"`
	Input   InputConfig   `yaml:"input" toml:"input"`
	Player  player.Tuning `yaml:"player" toml:"player"`
	Camera  camera.Config `yaml:"camera" toml:"camera"`
	Audio   AudioConfig   `yaml:"audio" toml:"audio"`
	Level   LevelConfig   `yaml:"level" toml:"level"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	File   string `yaml:"file" toml:"file"`
	Format string `yaml:"format" toml:"format"`
}

type LoopConfig struct {
	TickRate int `yaml:"tick_rate" toml:"tick_rate"`
}

type InputConfig struct {
	Smoothing    float32 `yaml:"smoothing" toml:"smoothing"`
	HoldWindowMS int     `yaml:"hold_window_ms" toml:"hold_window_ms"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled" toml:"enabled"`
	Volume  float64 `yaml:"volume" toml:"volume"`
}

type LevelConfig struct {
	Path string `yaml:"path" toml:"path"`
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Loop:    LoopConfig{TickRate: 60},
		Input:   InputConfig{Smoothing: 0.2, HoldWindowMS: 150},
		Player:  player.DefaultTuning(),
		Camera:  camera.DefaultConfig(),
		Audio:   AudioConfig{Enabled: true, Volume: 0.5},
	}
}

// Load reads a YAML or TOML file on top of Default. The format is chosen by
// extension; anything other than .toml is read as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	case "yaml", "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q", c.Logging.Format))
	}
	if c.Loop.TickRate <= 0 || c.Loop.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("loop.tick_rate %d out of range (1..1000)", c.Loop.TickRate))
	}
	if c.Input.Smoothing <= 0 || c.Input.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("input.smoothing %v out of range (0..1]", c.Input.Smoothing))
	}
	if c.Input.HoldWindowMS < 0 {
		errs = append(errs, fmt.Errorf("input.hold_window_ms %d is negative", c.Input.HoldWindowMS))
	}
	if c.Player.Speed <= 0 {
		errs = append(errs, fmt.Errorf("player.speed %v must be positive", c.Player.Speed))
	}
	if c.Player.Gravity >= 0 {
		errs = append(errs, fmt.Errorf("player.gravity %v must be negative", c.Player.Gravity))
	}
	if c.Player.DashTicks < 0 {
		errs = append(errs, fmt.Errorf("player.dash_ticks %d is negative", c.Player.DashTicks))
	}
	for _, f := range []struct {
		name  string
		value float32
	}{
		{"player.jump_force", c.Player.JumpForce},
		{"player.dash_factor", c.Player.DashFactor},
		{"player.turn_rate", c.Player.TurnRate},
		{"player.ground_ray_lift", c.Player.GroundRayLift},
		{"player.ground_ray_length", c.Player.GroundRayLength},
		{"player.slope_ray_offset", c.Player.SlopeRayOffset},
		{"player.slope_ray_length", c.Player.SlopeRayLength},
	} {
		if !(f.value > 0) || math.IsInf(float64(f.value), 0) {
			errs = append(errs, fmt.Errorf("%s %v must be positive", f.name, f.value))
		}
	}
	if c.Player.SlopeTag == "" {
		errs = append(errs, fmt.Errorf("player.slope_tag is empty"))
	}
	if yaw := float64(c.Camera.Yaw); math.IsInf(yaw, 0) || math.IsNaN(yaw) {
		errs = append(errs, fmt.Errorf("camera.yaw %v is not finite", c.Camera.Yaw))
	}
	if c.Camera.FollowLerp < 0 || c.Camera.FollowLerp > 1 {
		errs = append(errs, fmt.Errorf("camera.follow_lerp %v out of range [0..1]", c.Camera.FollowLerp))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume %v out of range [0..1]", c.Audio.Volume))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}
