package camera

import (
	"github.com/Versifine/stride/internal/physics"
	"github.com/chewxy/math32"
)

const (
	DefaultFollowLerp   = 0.4
	DefaultHeightOffset = 2
	DefaultTilt         = 0.5934119
	DefaultRadius       = 30
)

type Config struct {
	FollowLerp   float32 `yaml:"follow_lerp" toml:"follow_lerp"`
	HeightOffset float32 `yaml:"height_offset" toml:"height_offset"`
	Yaw          float32 `yaml:"yaw" toml:"yaw"`
	Tilt         float32 `yaml:"tilt" toml:"tilt"`
	Radius       float32 `yaml:"radius" toml:"radius"`
	OrbitStep    float32 `yaml:"orbit_step" toml:"orbit_step"`
}

func DefaultConfig() Config {
	return Config{
		FollowLerp:   DefaultFollowLerp,
		HeightOffset: DefaultHeightOffset,
		Tilt:         DefaultTilt,
		Radius:       DefaultRadius,
		OrbitStep:    math32.Pi / 16,
	}
}

type Target interface {
	Position() physics.Vec3
}

type Registrar interface {
	Register(name string, fn func())
}

// Rig is the pivot the third-person camera hangs from. Only its yaw drives
// movement; tilt and radius place the eye for views.
type Rig struct {
	cfg       Config
	position  physics.Vec3
	yaw       float32
	activated bool
}

func New(cfg Config) *Rig {
	d := DefaultConfig()
	if cfg.FollowLerp <= 0 || cfg.FollowLerp > 1 {
		cfg.FollowLerp = d.FollowLerp
	}
	if cfg.Radius <= 0 {
		cfg.Radius = d.Radius
	}
	if cfg.OrbitStep <= 0 {
		cfg.OrbitStep = d.OrbitStep
	}
	return &Rig{cfg: cfg, yaw: normalizeAngle(cfg.Yaw)}
}

func (r *Rig) Forward() physics.Vec3 {
	return physics.V3(math32.Sin(r.yaw), 0, math32.Cos(r.yaw))
}

func (r *Rig) Right() physics.Vec3 {
	return physics.V3(math32.Cos(r.yaw), 0, -math32.Sin(r.yaw))
}

func (r *Rig) Yaw() float32 {
	return r.yaw
}

func (r *Rig) Position() physics.Vec3 {
	return r.position
}

// Eye is where the camera sits: behind and above the pivot.
func (r *Rig) Eye() physics.Vec3 {
	back := r.Forward().Scale(-r.cfg.Radius * math32.Cos(r.cfg.Tilt))
	up := physics.Vec3{Y: r.cfg.Radius * math32.Sin(r.cfg.Tilt)}
	return r.position.Add(back).Add(up)
}

func (r *Rig) Rotate(delta float32) {
	r.yaw = normalizeAngle(r.yaw + delta)
}

func (r *Rig) OrbitLeft() {
	r.Rotate(-r.cfg.OrbitStep)
}

func (r *Rig) OrbitRight() {
	r.Rotate(r.cfg.OrbitStep)
}

// Follow eases the pivot toward a point above target.
func (r *Rig) Follow(target physics.Vec3) {
	goal := target.Add(physics.Vec3{Y: r.cfg.HeightOffset})
	r.position = r.position.Lerp(goal, r.cfg.FollowLerp)
}

// Snap moves the pivot straight to target, used when a game starts.
func (r *Rig) Snap(target physics.Vec3) {
	r.position = target.Add(physics.Vec3{Y: r.cfg.HeightOffset})
}

// Activate registers the follow step. Register it after the player so the
// camera tracks the position produced in the same tick.
func (r *Rig) Activate(reg Registrar, target Target) {
	if r.activated || reg == nil || target == nil {
		return
	}
	r.activated = true
	reg.Register("camera", func() {
		r.Follow(target.Position())
	})
}

// normalizeAngle wraps a into (-Pi, Pi]. Non-finite angles become 0.
func normalizeAngle(a float32) float32 {
	if math32.IsNaN(a) || math32.IsInf(a, 0) {
		return 0
	}
	a = math32.Mod(a, 2*math32.Pi)
	for a <= -math32.Pi {
		a += 2 * math32.Pi
	}
	for a > math32.Pi {
		a -= 2 * math32.Pi
	}
	return a
}
