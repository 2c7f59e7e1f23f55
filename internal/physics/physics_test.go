package physics

import (
	"testing"

	"github.com/chewxy/math32"
)

func approxEqual(t *testing.T, got, want, tol float32, field string) {
	t.Helper()
	if math32.Abs(got-want) > tol {
		t.Fatalf("%s = %.6f, want %.6f (tol=%.6f)", field, got, want, tol)
	}
}

func floorWorld() *World {
	return NewWorld(Box("ground", V3(-24, -0.96, -24), V3(24, 0, 24)))
}

func TestMoveWithCollision_FreeMoveWithoutColliders(t *testing.T) {
	w := NewWorld()
	body := NewBody(V3(0, 5, 0), 1, 3)

	w.MoveWithCollision(body, V3(0.5, -0.25, -1))

	approxEqual(t, body.Position().X, 0.5, 1e-6, "position.x")
	approxEqual(t, body.Position().Y, 4.75, 1e-6, "position.y")
	approxEqual(t, body.Position().Z, -1, 1e-6, "position.z")
}

func TestMoveWithCollision_FloorStopsFall(t *testing.T) {
	w := floorWorld()
	body := NewBody(V3(0, 0.3, 0), 1, 3)

	w.MoveWithCollision(body, V3(0, -0.8, 0))

	approxEqual(t, body.Position().Y, 0, 1e-5, "position.y")
}

func TestMoveWithCollision_WallStopsHorizontalMovementAndSlides(t *testing.T) {
	w := floorWorld()
	w.Add(Box("wall", V3(2, 0, -5), V3(3, 4, 5)))
	body := NewBody(V3(0.5, 0, 0), 1, 3)

	w.MoveWithCollision(body, V3(1, 0, 0.5))

	approxEqual(t, body.Position().X, 1, 1e-5, "position.x")
	approxEqual(t, body.Position().Z, 0.5, 1e-5, "position.z")
	approxEqual(t, body.Position().Y, 0, 1e-5, "position.y")
}

func TestMoveWithCollision_CannotStepOntoBox(t *testing.T) {
	w := floorWorld()
	w.Add(Box("crate", V3(2, 0, -1), V3(4, 0.5, 1)))
	body := NewBody(V3(0, 0, 0), 1, 3)

	for i := 0; i < 10; i++ {
		w.MoveWithCollision(body, V3(0.45, 0, 0))
	}

	approxEqual(t, body.Position().X, 1, 1e-5, "position.x")
	approxEqual(t, body.Position().Y, 0, 1e-5, "position.y")
}

func TestMoveWithCollision_WalksUpRamp(t *testing.T) {
	w := floorWorld()
	w.Add(Ramp("stair-1", V3(2, 0, -2), V3(6, 2, 2), RisePosX))
	body := NewBody(V3(1.8, 0, 0), 1, 3)

	for i := 0; i < 5; i++ {
		w.MoveWithCollision(body, V3(0.4, 0, 0))
	}

	pos := body.Position()
	approxEqual(t, pos.X, 3.8, 1e-4, "position.x")
	approxEqual(t, pos.Y, 0.9, 1e-4, "position.y")
}

func TestMoveWithCollision_RefusesSteepRampStep(t *testing.T) {
	w := floorWorld()
	w.Add(Ramp("stair-steep", V3(2, 0, -2), V3(3, 4, 2), RisePosX))
	body := NewBody(V3(1.5, 0, 0), 1, 3)

	w.MoveWithCollision(body, V3(1, 0, 0))

	approxEqual(t, body.Position().X, 1.5, 1e-5, "position.x")
	approxEqual(t, body.Position().Y, 0, 1e-5, "position.y")
}

func TestMoveWithCollision_LandsOnRampSurface(t *testing.T) {
	w := NewWorld(Ramp("stair-1", V3(0, 0, -2), V3(4, 2, 2), RisePosX))
	body := NewBody(V3(2, 1.5, 0), 1, 3)

	w.MoveWithCollision(body, V3(0, -1, 0))

	approxEqual(t, body.Position().Y, 1, 1e-5, "position.y")
}

func TestCastRay_HitsBoxTop(t *testing.T) {
	w := floorWorld()

	hit, ok := w.CastRay(V3(0, 0.5, 0), Down, 0.6)
	if !ok {
		t.Fatalf("CastRay() missed, want hit on ground")
	}
	approxEqual(t, hit.Distance, 0.5, 1e-5, "distance")
	approxEqual(t, hit.Point.Y, 0, 1e-5, "point.y")
	if !hit.Normal.NearlyEqual(Up, 1e-6) {
		t.Fatalf("normal = %+v, want up", hit.Normal)
	}
	if hit.Tag != "ground" {
		t.Fatalf("tag = %q, want ground", hit.Tag)
	}
}

func TestCastRay_MissesBeyondMaxDistance(t *testing.T) {
	w := floorWorld()

	if _, ok := w.CastRay(V3(0, 1.2, 0), Down, 0.6); ok {
		t.Fatalf("CastRay() hit, want miss beyond max distance")
	}
}

func TestCastRay_RampReportsSlopedNormal(t *testing.T) {
	w := NewWorld(Ramp("stair-1", V3(0, 0, -2), V3(4, 2, 2), RisePosX))

	hit, ok := w.CastRay(V3(2, 3, 0), Down, 5)
	if !ok {
		t.Fatalf("CastRay() missed ramp")
	}
	approxEqual(t, hit.Point.Y, 1, 1e-5, "point.y")
	if hit.Normal.NearlyEqual(Up, 1e-3) {
		t.Fatalf("normal = %+v, want sloped", hit.Normal)
	}
	if hit.Normal.X >= 0 || hit.Normal.Y <= 0 {
		t.Fatalf("normal = %+v, want facing -x and up", hit.Normal)
	}
	approxEqual(t, hit.Normal.Length(), 1, 1e-5, "|normal|")
}

func TestCastRay_ReturnsNearestHit(t *testing.T) {
	w := floorWorld()
	w.Add(Box("platform", V3(-1, 2, -1), V3(1, 2.5, 1)))

	hit, ok := w.CastRay(V3(0, 5, 0), Down, 10)
	if !ok {
		t.Fatalf("CastRay() missed")
	}
	if hit.Tag != "platform" {
		t.Fatalf("tag = %q, want platform", hit.Tag)
	}
	approxEqual(t, hit.Distance, 2.5, 1e-5, "distance")
}

func TestCastRay_SideFaceNormal(t *testing.T) {
	w := NewWorld(Box("wall", V3(2, 0, -1), V3(3, 2, 1)))

	hit, ok := w.CastRay(V3(0, 1, 0), V3(1, 0, 0), 10)
	if !ok {
		t.Fatalf("CastRay() missed wall")
	}
	if !hit.Normal.NearlyEqual(V3(-1, 0, 0), 1e-6) {
		t.Fatalf("normal = %+v, want -x", hit.Normal)
	}
}

func TestQuat_SlerpReachesTarget(t *testing.T) {
	from := IdentityQuat()
	to := QuatFromYaw(math32.Pi / 2)

	half := from.Slerp(to, 0.5)
	approxEqual(t, half.Yaw(), math32.Pi/4, 1e-4, "yaw")

	full := from.Slerp(to, 1)
	approxEqual(t, full.Yaw(), math32.Pi/2, 1e-5, "yaw")
}

func TestQuat_RotateForward(t *testing.T) {
	body := NewBody(Zero, 1, 3)
	body.SetRotation(QuatFromYaw(math32.Pi / 2))

	facing := Facing(body)
	approxEqual(t, facing.X, 1, 1e-5, "facing.x")
	approxEqual(t, facing.Z, 0, 1e-5, "facing.z")
}
