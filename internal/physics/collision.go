package physics

import "github.com/chewxy/math32"

type AABB struct {
	Min Vec3
	Max Vec3
}

func PlayerAABB(pos Vec3, halfWidth, height float32) AABB {
	return AABB{
		Min: Vec3{X: pos.X - halfWidth, Y: pos.Y, Z: pos.Z - halfWidth},
		Max: Vec3{X: pos.X + halfWidth, Y: pos.Y + height, Z: pos.Z + halfWidth},
	}
}

func intersects(a, b AABB) bool {
	return a.Min.X < b.Max.X-CollisionAxisTolerance &&
		a.Max.X > b.Min.X+CollisionAxisTolerance &&
		a.Min.Y < b.Max.Y-CollisionAxisTolerance &&
		a.Max.Y > b.Min.Y+CollisionAxisTolerance &&
		a.Min.Z < b.Max.Z-CollisionAxisTolerance &&
		a.Max.Z > b.Min.Z+CollisionAxisTolerance
}

// overlapsExcept reports whether a and b overlap on both axes other than skip.
func overlapsExcept(a, b AABB, skip int) bool {
	for i := axisX; i <= axisZ; i++ {
		if i == skip {
			continue
		}
		if a.Min.axis(i) >= b.Max.axis(i)-CollisionAxisTolerance ||
			a.Max.axis(i) <= b.Min.axis(i)+CollisionAxisTolerance {
			return false
		}
	}
	return true
}

// CollidesWithBox reports whether aabb overlaps any solid box in the world.
func (w *World) CollidesWithBox(aabb AABB) bool {
	for _, c := range w.colliders {
		if c.Kind != KindBox {
			continue
		}
		if intersects(aabb, c.Bounds) {
			return true
		}
	}
	return false
}

// MoveWithCollision moves the entity by displacement, resolving the Y axis
// first and then X and Z so the entity slides along whatever it touches.
func (w *World) MoveWithCollision(e Entity, displacement Vec3) {
	if e == nil {
		return
	}
	halfWidth, height := e.Extent()
	pos := e.Position()

	pos = w.resolveVertical(pos, displacement.Y, halfWidth, height)
	pos = w.resolveHorizontal(pos, axisX, displacement.X, halfWidth, height)
	pos = w.resolveHorizontal(pos, axisZ, displacement.Z, halfWidth, height)

	e.SetPosition(pos)
}

func (w *World) resolveVertical(pos Vec3, delta, halfWidth, height float32) Vec3 {
	if nearlyZero(delta) {
		return pos
	}
	allowed := w.allowedAlongAxis(pos, axisY, delta, halfWidth, height)
	next := pos
	next.Y += allowed

	if delta < 0 {
		if surface, ok := w.rampSurfaceBelow(pos); ok {
			if pos.Y >= surface-CollisionAxisTolerance && next.Y < surface {
				next.Y = surface
			}
		}
	}
	return next
}

func (w *World) resolveHorizontal(pos Vec3, axis int, delta, halfWidth, height float32) Vec3 {
	if nearlyZero(delta) {
		return pos
	}
	allowed := w.allowedAlongAxis(pos, axis, delta, halfWidth, height)
	next := pos
	next.setAxis(axis, pos.axis(axis)+allowed)

	surface, ok := w.rampSurfaceAt(next)
	if !ok || next.Y >= surface {
		return next
	}
	lift := surface - next.Y
	if lift > w.StepHeight {
		return pos
	}
	lifted := next
	lifted.Y = surface
	if w.CollidesWithBox(PlayerAABB(lifted, halfWidth, height)) {
		return pos
	}
	return lifted
}

// allowedAlongAxis returns how far the player box can travel along axis
// before touching a solid box.
func (w *World) allowedAlongAxis(pos Vec3, axis int, delta, halfWidth, height float32) float32 {
	player := PlayerAABB(pos, halfWidth, height)
	allowed := delta

	for _, c := range w.colliders {
		if c.Kind != KindBox {
			continue
		}
		box := c.Bounds
		if !overlapsExcept(player, box, axis) {
			continue
		}
		if delta > 0 {
			if box.Min.axis(axis) < player.Max.axis(axis)-CollisionAxisTolerance {
				continue
			}
			candidate := box.Min.axis(axis) - player.Max.axis(axis)
			if candidate < allowed {
				allowed = candidate
			}
		} else {
			if box.Max.axis(axis) > player.Min.axis(axis)+CollisionAxisTolerance {
				continue
			}
			candidate := box.Max.axis(axis) - player.Min.axis(axis)
			if candidate > allowed {
				allowed = candidate
			}
		}
	}

	return allowed
}

// rampSurfaceAt returns the highest ramp surface under the XZ position of p.
func (w *World) rampSurfaceAt(p Vec3) (float32, bool) {
	best := float32(0)
	found := false
	for _, c := range w.colliders {
		if c.Kind != KindRamp {
			continue
		}
		h, ok := c.surfaceHeight(p.X, p.Z)
		if !ok {
			continue
		}
		if !found || h > best {
			best = h
			found = true
		}
	}
	return best, found
}

func (w *World) rampSurfaceBelow(pos Vec3) (float32, bool) {
	surface, ok := w.rampSurfaceAt(pos)
	if !ok || surface > pos.Y+w.StepHeight {
		return 0, false
	}
	return surface, true
}

func nearlyZero(v float32) bool {
	return math32.Abs(v) <= CollisionAxisTolerance
}
