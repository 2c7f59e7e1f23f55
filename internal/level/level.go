package level

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Versifine/stride/internal/physics"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultLevel []byte

var ErrInvalidLevel = errors.New("invalid level")

type Level struct {
	Name       string         `yaml:"name"`
	Spawn      []float32      `yaml:"spawn"`
	StepHeight float32        `yaml:"step_height"`
	Colliders  []ColliderSpec `yaml:"colliders"`
}

type ColliderSpec struct {
	Name string    `yaml:"name"`
	Kind string    `yaml:"kind"`
	Min  []float32 `yaml:"min"`
	Max  []float32 `yaml:"max"`
	Rise string    `yaml:"rise"`
}

// Default returns the built-in level.
func Default() *Level {
	lvl, err := Parse(defaultLevel)
	if err != nil {
		panic(fmt.Sprintf("embedded level: %v", err))
	}
	return lvl
}

func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

func Parse(data []byte) (*Level, error) {
	lvl := &Level{}
	if err := yaml.Unmarshal(data, lvl); err != nil {
		return nil, err
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return lvl, nil
}

func (l *Level) Validate() error {
	if len(l.Spawn) != 0 && len(l.Spawn) != 3 {
		return fmt.Errorf("%w: spawn needs 3 components, got %d", ErrInvalidLevel, len(l.Spawn))
	}
	if len(l.Colliders) == 0 {
		return fmt.Errorf("%w: no colliders", ErrInvalidLevel)
	}
	seen := make(map[string]bool, len(l.Colliders))
	for i, spec := range l.Colliders {
		if spec.Name == "" {
			return fmt.Errorf("%w: collider %d has no name", ErrInvalidLevel, i)
		}
		if seen[spec.Name] {
			return fmt.Errorf("%w: duplicate collider %q", ErrInvalidLevel, spec.Name)
		}
		seen[spec.Name] = true
		c, err := spec.collider()
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
		}
	}
	return nil
}

func (l *Level) SpawnPoint() physics.Vec3 {
	if len(l.Spawn) != 3 {
		return physics.Zero
	}
	return physics.V3(l.Spawn[0], l.Spawn[1], l.Spawn[2])
}

// Build turns the description into a collision world.
func (l *Level) Build() (*physics.World, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	w := physics.NewWorld()
	if l.StepHeight > 0 {
		w.StepHeight = l.StepHeight
	}
	for _, spec := range l.Colliders {
		c, err := spec.collider()
		if err != nil {
			return nil, err
		}
		w.Add(c)
	}
	return w, nil
}

func (s ColliderSpec) collider() (physics.Collider, error) {
	min, err := vec(s.Name, "min", s.Min)
	if err != nil {
		return physics.Collider{}, err
	}
	max, err := vec(s.Name, "max", s.Max)
	if err != nil {
		return physics.Collider{}, err
	}

	switch strings.ToLower(s.Kind) {
	case "", "box":
		return physics.Box(s.Name, min, max), nil
	case "ramp":
		rise, err := parseRise(s.Rise)
		if err != nil {
			return physics.Collider{}, fmt.Errorf("%w: collider %q: %v", ErrInvalidLevel, s.Name, err)
		}
		return physics.Ramp(s.Name, min, max, rise), nil
	default:
		return physics.Collider{}, fmt.Errorf("%w: collider %q: unknown kind %q", ErrInvalidLevel, s.Name, s.Kind)
	}
}

func vec(name, field string, v []float32) (physics.Vec3, error) {
	if len(v) != 3 {
		return physics.Vec3{}, fmt.Errorf("%w: collider %q: %s needs 3 components, got %d", ErrInvalidLevel, name, field, len(v))
	}
	return physics.V3(v[0], v[1], v[2]), nil
}

func parseRise(s string) (physics.Rise, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+x", "x":
		return physics.RisePosX, nil
	case "-x":
		return physics.RiseNegX, nil
	case "+z", "z":
		return physics.RisePosZ, nil
	case "-z":
		return physics.RiseNegZ, nil
	default:
		return 0, fmt.Errorf("unknown rise %q", s)
	}
}
