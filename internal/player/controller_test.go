package player

import (
	"testing"

	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/physics"
	"github.com/chewxy/math32"
)

const testDt = float32(1.0 / 60.0)

type fixedClock struct{ dt float32 }

func (c fixedClock) DeltaSeconds() float32 { return c.dt }

type fixedAxes struct{ axes input.ControlAxes }

func (a *fixedAxes) Axes() input.ControlAxes { return a.axes }

type yawCamera struct{ yaw float32 }

func (c yawCamera) Forward() physics.Vec3 {
	return physics.V3(math32.Sin(c.yaw), 0, math32.Cos(c.yaw))
}

func (c yawCamera) Right() physics.Vec3 {
	return physics.V3(math32.Cos(c.yaw), 0, -math32.Sin(c.yaw))
}

func (c yawCamera) Yaw() float32 { return c.yaw }

type recordingPublisher struct {
	names []string
}

func (p *recordingPublisher) Publish(name string, evt any) {
	p.names = append(p.names, name)
}

func (p *recordingPublisher) count(name string) int {
	n := 0
	for _, got := range p.names {
		if got == name {
			n++
		}
	}
	return n
}

type harness struct {
	world *physics.World
	body  *physics.Body
	axes  *fixedAxes
	pub   *recordingPublisher
	ctrl  *Controller
}

func newHarness(world *physics.World, start physics.Vec3) *harness {
	h := &harness{
		world: world,
		body:  physics.NewBody(start, 1, 3),
		axes:  &fixedAxes{},
		pub:   &recordingPublisher{},
	}
	h.ctrl = New(h.body, world, yawCamera{}, fixedClock{dt: testDt}, h.axes, WithPublisher(h.pub))
	return h
}

func groundWorld() *physics.World {
	return physics.NewWorld(physics.Box("ground", physics.V3(-24, -0.96, -24), physics.V3(24, 0, 24)))
}

func approxEqual(t *testing.T, got, want, tol float32, field string) {
	t.Helper()
	if math32.Abs(got-want) > tol {
		t.Fatalf("%s = %.6f, want %.6f (tol=%.6f)", field, got, want, tol)
	}
}

func TestNew_InitialState(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0, 0))
	st := h.ctrl.State()

	if !st.Grounded {
		t.Fatalf("grounded = false, want true when spawned on the floor")
	}
	if st.JumpCharges != 1 || !st.CanDash || st.DashActive || st.DashTimer != 0 {
		t.Fatalf("unexpected initial state %+v", st)
	}
}

func TestUpdate_AirborneFallAccumulatesGravity(t *testing.T) {
	h := newHarness(physics.NewWorld(), physics.V3(0, 50, 0))

	h.ctrl.Update()

	st := h.ctrl.State()
	if st.Grounded {
		t.Fatalf("grounded = true, want false")
	}
	approxEqual(t, st.Gravity.Y, -testDt*2.8, 1e-6, "gravity.y")
	approxEqual(t, h.body.Position().Y, 50-testDt*2.8, 1e-4, "position.y")
}

func TestUpdate_GravityNeverExceedsJumpForceDownward(t *testing.T) {
	h := newHarness(physics.NewWorld(), physics.V3(0, 1000, 0))
	h.ctrl.SetTuning(Tuning{KillPlaneY: -1e6})

	for i := 0; i < 600; i++ {
		h.ctrl.Update()
		if g := h.ctrl.State().Gravity.Y; g < -0.8-1e-6 {
			t.Fatalf("tick %d: gravity.y = %.4f below -jump force", i, g)
		}
	}
	approxEqual(t, h.ctrl.State().Gravity.Y, -0.8, 1e-6, "terminal gravity.y")
}

func TestUpdate_LandingResetsJumpAndDash(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 3, 0))

	h.axes.axes.DashHeld = true
	h.ctrl.Update()
	if st := h.ctrl.State(); !st.DashActive || st.CanDash {
		t.Fatalf("dash did not start: %+v", st)
	}

	for i := 0; i < 120 && !h.ctrl.State().Grounded; i++ {
		h.ctrl.Update()
	}

	st := h.ctrl.State()
	if !st.Grounded {
		t.Fatalf("never landed, y=%.3f", h.body.Position().Y)
	}
	if st.JumpCharges != 1 || !st.CanDash || st.DashActive || st.DashTimer != 0 {
		t.Fatalf("landing did not reset state: %+v", st)
	}
	approxEqual(t, st.Gravity.Y, 0, 0, "gravity.y")
	if h.pub.count(event.EventLand) != 1 {
		t.Fatalf("land events = %d, want 1", h.pub.count(event.EventLand))
	}
}

func TestUpdate_LandingCancelsDashInProgress(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0.12, 0))

	h.axes.axes.DashHeld = true
	h.ctrl.Update()

	st := h.ctrl.State()
	if st.DashActive || !st.CanDash || st.DashTimer != 0 || !st.Grounded {
		t.Fatalf("landing should win over the dash started this tick: %+v", st)
	}
	if h.pub.count(event.EventDashStart) != 1 || h.pub.count(event.EventDashEnd) != 1 {
		t.Fatalf("events = %v", h.pub.names)
	}
}

func TestUpdate_DashBlockedWhileGrounded(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0, 0))

	h.axes.axes.DashHeld = true
	h.ctrl.Update()

	st := h.ctrl.State()
	if st.DashActive || !st.CanDash {
		t.Fatalf("dash activated on the ground: %+v", st)
	}
}

func TestUpdate_AirDashLastsElevenTicksAfterTrigger(t *testing.T) {
	h := newHarness(physics.NewWorld(), physics.V3(0, 100, 0))
	h.axes.axes = input.ControlAxes{Vertical: 1, VerticalAxis: 1, DashHeld: true}

	h.ctrl.Update()
	st := h.ctrl.State()
	if !st.DashActive || st.CanDash {
		t.Fatalf("dash did not trigger: %+v", st)
	}
	approxEqual(t, st.MoveDirection.Z, 0.45*2.5, 1e-5, "dash move.z")

	for i := 1; i <= 10; i++ {
		h.ctrl.Update()
		if !h.ctrl.State().DashActive {
			t.Fatalf("dash ended early after %d ticks", i)
		}
	}

	h.ctrl.Update()
	st = h.ctrl.State()
	if st.DashActive || st.DashTimer != 0 {
		t.Fatalf("dash still active after 11 ticks: %+v", st)
	}
	if st.CanDash {
		t.Fatalf("canDash restored without landing")
	}
	approxEqual(t, st.MoveDirection.Z, 0.45, 1e-5, "move.z after dash")
}

func TestUpdate_DashNeedsFreshPressAndCharge(t *testing.T) {
	h := newHarness(physics.NewWorld(), physics.V3(0, 100, 0))

	h.axes.axes.DashHeld = true
	for i := 0; i < 15; i++ {
		h.ctrl.Update()
	}
	if h.ctrl.State().DashActive {
		t.Fatalf("dash should have ended")
	}

	h.axes.axes.DashHeld = false
	h.ctrl.Update()
	h.axes.axes.DashHeld = true
	h.ctrl.Update()

	if st := h.ctrl.State(); st.DashActive {
		t.Fatalf("dash retriggered without canDash: %+v", st)
	}
	if h.pub.count(event.EventDashStart) != 1 {
		t.Fatalf("dash.start events = %d, want 1", h.pub.count(event.EventDashStart))
	}
}

func stairWorld(tag string) *physics.World {
	return physics.NewWorld(
		physics.Ramp(tag, physics.V3(-4, 0, -4), physics.V3(4, 4, 4), physics.RisePosX),
	)
}

func TestUpdate_SlopeCountsAsGroundWhileFalling(t *testing.T) {
	// Surface at x=0 is y=2; feet hover above the ground ray's reach.
	h := newHarness(stairWorld("stair-1"), physics.V3(0, 2.3, 0))
	h.ctrl.state.CanDash = false
	h.ctrl.state.JumpCharges = 0

	h.ctrl.Update()

	st := h.ctrl.State()
	if !st.Grounded {
		t.Fatalf("grounded = false, want true on stair slope")
	}
	approxEqual(t, st.Gravity.Y, 0, 0, "gravity.y")
	if st.JumpCharges != 1 {
		t.Fatalf("jump charges = %d, want 1", st.JumpCharges)
	}
	if st.CanDash {
		t.Fatalf("slope contact must not reset dash bookkeeping")
	}
}

func TestUpdate_UntaggedSlopeIsNotGround(t *testing.T) {
	h := newHarness(stairWorld("hill"), physics.V3(0, 2.3, 0))

	h.ctrl.Update()

	st := h.ctrl.State()
	if st.Grounded {
		t.Fatalf("grounded = true on an untagged slope")
	}
	approxEqual(t, st.Gravity.Y, -testDt*2.8, 1e-6, "gravity.y")
}

func TestUpdate_SlopeIgnoredWhileRising(t *testing.T) {
	h := newHarness(stairWorld("stair-1"), physics.V3(0, 2.3, 0))
	h.ctrl.state.Gravity.Y = 0.5

	h.ctrl.Update()

	approxEqual(t, h.ctrl.State().Gravity.Y, 0.5-testDt*2.8, 1e-6, "gravity.y")
}

func TestUpdate_JumpFromGround(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0, 0))

	h.axes.axes.JumpHeld = true
	h.ctrl.Update()

	st := h.ctrl.State()
	approxEqual(t, st.Gravity.Y, 0.8, 1e-6, "gravity.y")
	if st.JumpCharges != 0 {
		t.Fatalf("jump charges = %d, want 0", st.JumpCharges)
	}

	h.ctrl.Update()
	approxEqual(t, h.body.Position().Y, 0.8, 1e-5, "position.y")
	if h.pub.count(event.EventJump) != 1 {
		t.Fatalf("jump events = %d, want 1", h.pub.count(event.EventJump))
	}
}

func TestUpdate_MidAirJumpConsumesSingleCharge(t *testing.T) {
	h := newHarness(physics.NewWorld(), physics.V3(0, 100, 0))

	h.axes.axes.JumpHeld = true
	h.ctrl.Update()
	approxEqual(t, h.ctrl.State().Gravity.Y, 0.8, 1e-6, "gravity.y after jump")

	h.ctrl.Update()
	approxEqual(t, h.ctrl.State().Gravity.Y, 0.8-testDt*2.8, 1e-6, "gravity.y")
	if h.pub.count(event.EventJump) != 1 {
		t.Fatalf("jump events = %d, want 1", h.pub.count(event.EventJump))
	}
}

func TestUpdate_MoveIsCameraRelative(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0, 0))
	h.ctrl.camera = yawCamera{yaw: math32.Pi / 2}
	h.axes.axes = input.ControlAxes{Vertical: 0.5, VerticalAxis: 1}

	h.ctrl.Update()

	st := h.ctrl.State()
	approxEqual(t, st.MoveDirection.X, 0.5*0.45, 1e-5, "move.x")
	approxEqual(t, st.MoveDirection.Z, 0, 1e-5, "move.z")
	approxEqual(t, st.MoveDirection.Y, 0, 0, "move.y")
	approxEqual(t, h.body.Position().X, 0.5*0.45, 1e-5, "position.x")
}

func TestUpdate_DiagonalInputIsClamped(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0, 0))
	h.axes.axes = input.ControlAxes{Horizontal: 1, Vertical: 1, HorizontalAxis: 1, VerticalAxis: 1}

	h.ctrl.Update()

	approxEqual(t, h.ctrl.State().MoveDirection.Length(), 0.45, 1e-5, "|move|")
}

func TestUpdate_RotationSkippedWithoutRawInput(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0, 0))
	h.body.SetRotation(physics.QuatFromYaw(1))
	h.axes.axes = input.ControlAxes{Horizontal: 0.3}

	h.ctrl.Update()

	approxEqual(t, h.body.Rotation().Yaw(), 1, 1e-5, "yaw")
}

func TestUpdate_RotationTurnsTowardInput(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0, 0))
	h.axes.axes = input.ControlAxes{HorizontalAxis: 1}

	h.ctrl.Update()
	yaw := h.body.Rotation().Yaw()
	if yaw <= 0 || yaw >= math32.Pi/2 {
		t.Fatalf("yaw after one tick = %.4f, want between 0 and pi/2", yaw)
	}

	for i := 0; i < 120; i++ {
		h.ctrl.Update()
	}
	approxEqual(t, h.body.Rotation().Yaw(), math32.Pi/2, 1e-3, "yaw")
}

func TestGroundCheck_IsIdempotent(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0.05, 0))

	first := h.ctrl.IsGrounded()
	second := h.ctrl.IsGrounded()
	if first != second || !first {
		t.Fatalf("IsGrounded() = %t then %t", first, second)
	}

	h.body.SetPosition(physics.V3(0, 0.2, 0))
	if h.ctrl.IsGrounded() || h.ctrl.IsGrounded() {
		t.Fatalf("IsGrounded() = true at 0.2 above the floor")
	}
}

func TestUpdate_KillPlaneRespawnsAtLastGround(t *testing.T) {
	world := physics.NewWorld(physics.Box("ledge", physics.V3(-2, -1, -2), physics.V3(2, 0, 2)))
	h := newHarness(world, physics.V3(0, 0, 0))
	h.ctrl.SetTuning(Tuning{KillPlaneY: -5})

	h.axes.axes = input.ControlAxes{Horizontal: 1, HorizontalAxis: 1}
	for i := 0; i < 200 && h.pub.count(event.EventRespawn) == 0; i++ {
		h.ctrl.Update()
	}

	if h.pub.count(event.EventRespawn) != 1 {
		t.Fatalf("respawn events = %d, want 1", h.pub.count(event.EventRespawn))
	}
	pos := h.body.Position()
	if pos.Y < 0 || pos.X > 3.5 {
		t.Fatalf("respawned at %+v, want last ground position on the ledge", pos)
	}
	approxEqual(t, h.ctrl.State().Gravity.Y, 0, 0, "gravity.y")
}

type stepRecorder struct{ names []string }

func (r *stepRecorder) Register(name string, fn func()) { r.names = append(r.names, name) }

func TestActivate_RegistersOnce(t *testing.T) {
	h := newHarness(groundWorld(), physics.V3(0, 0, 0))
	r := &stepRecorder{}

	h.ctrl.Activate(r)
	h.ctrl.Activate(r)

	if len(r.names) != 1 || r.names[0] != "player" {
		t.Fatalf("registered %v, want [player]", r.names)
	}
}

func TestTuning_ZeroDashTicksIsKept(t *testing.T) {
	if got := (Tuning{DashTicks: 0}).WithDefaults().DashTicks; got != 0 {
		t.Fatalf("DashTicks = %d, want 0", got)
	}
	if got := (Tuning{DashTicks: -1}).WithDefaults().DashTicks; got != DefaultTuning().DashTicks {
		t.Fatalf("DashTicks = %d, want default %d", got, DefaultTuning().DashTicks)
	}
}

func TestUpdate_ZeroTickDashBoostsOnce(t *testing.T) {
	h := newHarness(physics.NewWorld(), physics.V3(0, 100, 0))
	tuning := DefaultTuning()
	tuning.DashTicks = 0
	h.ctrl.SetTuning(tuning)
	h.axes.axes = input.ControlAxes{Vertical: 1, VerticalAxis: 1, DashHeld: true}

	h.ctrl.Update()
	st := h.ctrl.State()
	if !st.DashActive {
		t.Fatalf("dash did not trigger: %+v", st)
	}
	approxEqual(t, st.MoveDirection.Z, 0.45*2.5, 1e-5, "dash move.z")

	h.ctrl.Update()
	st = h.ctrl.State()
	if st.DashActive {
		t.Fatalf("dash still active on second tick: %+v", st)
	}
	approxEqual(t, st.MoveDirection.Z, 0.45, 1e-5, "move.z after dash")
	if n := h.pub.count(event.EventDashEnd); n != 1 {
		t.Fatalf("dash.end published %d times, want 1", n)
	}
}
