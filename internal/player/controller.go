package player

import (
	"log/slog"
	"strings"

	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/physics"
	"github.com/chewxy/math32"
)

const normalUpTolerance = 1e-4

type Environment interface {
	CastRay(origin, dir physics.Vec3, maxDist float32) (physics.Hit, bool)
	MoveWithCollision(e physics.Entity, displacement physics.Vec3)
}

type CameraRig interface {
	Forward() physics.Vec3
	Right() physics.Vec3
	Yaw() float32
}

type Clock interface {
	DeltaSeconds() float32
}

type AxesSource interface {
	Axes() input.ControlAxes
}

type Registrar interface {
	Register(name string, fn func())
}

type Publisher interface {
	Publish(eventName string, evt any)
}

// MotionState is owned and mutated only by the Controller.
type MotionState struct {
	MoveDirection      physics.Vec3
	Gravity            physics.Vec3
	Grounded           bool
	JumpCharges        int
	DashTimer          int
	DashActive         bool
	CanDash            bool
	LastGroundPosition physics.Vec3
}

type Option func(*Controller)

func WithTuning(t Tuning) Option {
	return func(c *Controller) {
		c.tuning = t.WithDefaults()
	}
}

func WithPublisher(p Publisher) Option {
	return func(c *Controller) {
		c.publisher = p
	}
}

// Controller turns control axes into movement for one entity, tracking
// whether it stands on the ground, falls, or dashes.
type Controller struct {
	entity    physics.Entity
	env       Environment
	camera    CameraRig
	clock     Clock
	axes      AxesSource
	publisher Publisher
	tuning    Tuning

	state        MotionState
	prevDashHeld bool
	touching     bool
	activated    bool
	ticks        uint64
}

func New(entity physics.Entity, env Environment, camera CameraRig, clock Clock, axes AxesSource, opts ...Option) *Controller {
	c := &Controller{
		entity: entity,
		env:    env,
		camera: camera,
		clock:  clock,
		axes:   axes,
		tuning: DefaultTuning(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset(entity.Position())
	return c
}

// Reset places the entity at pos and clears all motion state.
func (c *Controller) Reset(pos physics.Vec3) {
	c.entity.SetPosition(pos)
	c.state = MotionState{
		JumpCharges:        1,
		CanDash:            true,
		LastGroundPosition: pos,
	}
	c.prevDashHeld = false
	c.touching = c.IsGrounded()
	c.state.Grounded = c.touching
}

func (c *Controller) State() MotionState {
	return c.state
}

func (c *Controller) Tuning() Tuning {
	return c.tuning
}

// SetTuning swaps the movement constants. Call it between ticks.
func (c *Controller) SetTuning(t Tuning) {
	c.tuning = t.WithDefaults()
}

func (c *Controller) Entity() physics.Entity {
	return c.entity
}

func (c *Controller) Ticks() uint64 {
	return c.ticks
}

// Activate registers Update with the frame scheduler. Registration order
// decides that input is sampled before and the camera follows after.
func (c *Controller) Activate(r Registrar) {
	if c.activated || r == nil {
		return
	}
	c.activated = true
	r.Register("player", c.Update)
}

// Update advances the controller by one tick.
func (c *Controller) Update() {
	c.ticks++
	dt := c.clock.DeltaSeconds()
	axes := c.axes.Axes()

	c.updateFromControls(axes, dt)
	c.updateGroundDetection(axes, dt)
	c.checkKillPlane()
}

func (c *Controller) updateFromControls(axes input.ControlAxes, dt float32) {
	dashPressed := axes.DashHeld && !c.prevDashHeld
	c.prevDashHeld = axes.DashHeld

	if dashPressed && !c.state.DashActive && c.state.CanDash && !c.state.Grounded {
		c.state.CanDash = false
		c.state.DashActive = true
		slog.Debug("Dash started", "tick", c.ticks)
		c.publish(event.EventDashStart)
	}

	dashFactor := float32(1)
	if c.state.DashActive {
		if c.state.DashTimer > c.tuning.DashTicks {
			c.endDash()
		} else {
			dashFactor = c.tuning.DashFactor
			c.state.DashTimer++
		}
	}

	forward := c.camera.Forward()
	right := c.camera.Right()
	move := right.Scale(axes.Horizontal).Add(forward.Scale(axes.Vertical)).Flat().Normalize()
	amount := physics.Clamp(math32.Abs(axes.Horizontal)+math32.Abs(axes.Vertical), 0, 1)
	c.state.MoveDirection = move.Scale(amount * c.tuning.Speed * dashFactor)

	if axes.HorizontalAxis == 0 && axes.VerticalAxis == 0 {
		return
	}
	angle := math32.Atan2(float32(axes.HorizontalAxis), float32(axes.VerticalAxis)) + c.camera.Yaw()
	target := physics.QuatFromYaw(angle)
	t := physics.Clamp(c.tuning.TurnRate*dt, 0, 1)
	c.entity.SetRotation(c.entity.Rotation().Slerp(target, t))
}

func (c *Controller) updateGroundDetection(axes input.ControlAxes, dt float32) {
	if !c.IsGrounded() {
		if c.state.Gravity.Y <= 0 && c.CheckSlope() {
			c.state.Gravity.Y = 0
			c.state.JumpCharges = 1
			c.state.Grounded = true
		} else {
			c.state.Gravity.Y += dt * c.tuning.Gravity
			c.state.Grounded = false
		}
	}

	if c.state.Gravity.Y < -c.tuning.JumpForce {
		c.state.Gravity.Y = -c.tuning.JumpForce
	}

	c.env.MoveWithCollision(c.entity, c.state.MoveDirection.Add(c.state.Gravity))

	touching := c.IsGrounded()
	if touching {
		c.land(!c.touching)
	}
	c.touching = touching

	if axes.JumpHeld && c.state.JumpCharges > 0 {
		c.state.Gravity.Y = c.tuning.JumpForce
		c.state.JumpCharges--
		c.publish(event.EventJump)
	}
}

// land applies ground contact. It runs every tick the ground ray hits and
// overrides any dash in progress.
func (c *Controller) land(fresh bool) {
	c.state.Gravity.Y = 0
	c.state.Grounded = true
	c.state.LastGroundPosition = c.entity.Position()
	c.state.JumpCharges = 1
	c.state.CanDash = true
	if c.state.DashActive {
		c.endDash()
	}
	c.state.DashTimer = 0
	if fresh {
		c.publish(event.EventLand)
	}
}

func (c *Controller) endDash() {
	c.state.DashActive = false
	c.state.DashTimer = 0
	c.publish(event.EventDashEnd)
}

func (c *Controller) checkKillPlane() {
	pos := c.entity.Position()
	if pos.Y >= c.tuning.KillPlaneY {
		return
	}
	slog.Info("Player fell out of the world", "y", pos.Y, "respawn", c.state.LastGroundPosition)
	c.entity.SetPosition(c.state.LastGroundPosition)
	c.state.Gravity = physics.Vec3{}
	c.state.MoveDirection = physics.Vec3{}
	c.publish(event.EventRespawn)
}

// IsGrounded casts a ray straight down from just above the feet. It does not
// mutate state, so repeated calls within a tick agree.
func (c *Controller) IsGrounded() bool {
	origin := c.entity.Position().Add(physics.Vec3{Y: c.tuning.GroundRayLift})
	_, ok := c.env.CastRay(origin, physics.Down, c.tuning.GroundRayLength)
	return ok
}

// CheckSlope casts rays at four points around the feet for a tagged sloped
// surface.
func (c *Controller) CheckSlope() bool {
	pos := c.entity.Position()
	o := c.tuning.SlopeRayOffset
	offsets := [4]physics.Vec3{
		{Z: o},
		{Z: -o},
		{X: o},
		{X: -o},
	}
	for _, off := range offsets {
		origin := pos.Add(off).Add(physics.Vec3{Y: c.tuning.GroundRayLift})
		hit, ok := c.env.CastRay(origin, physics.Down, c.tuning.SlopeRayLength)
		if !ok {
			continue
		}
		if hit.Normal.NearlyEqual(physics.Up, normalUpTolerance) {
			continue
		}
		if strings.Contains(hit.Tag, c.tuning.SlopeTag) {
			return true
		}
	}
	return false
}

func (c *Controller) publish(name string) {
	if c.publisher == nil {
		return
	}
	pos := c.entity.Position()
	c.publisher.Publish(name, event.MotionEvent{
		Tick:     c.ticks,
		X:        pos.X,
		Y:        pos.Y,
		Z:        pos.Z,
		Gravity:  c.state.Gravity.Y,
		Grounded: c.state.Grounded,
	})
}
