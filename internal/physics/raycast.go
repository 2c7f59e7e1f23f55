package physics

import "github.com/chewxy/math32"

const rayParallelTolerance = 1e-8

// Hit describes the nearest surface struck by a ray.
type Hit struct {
	Point    Vec3
	Normal   Vec3
	Distance float32
	Tag      string
}

// CastRay returns the nearest surface hit within maxDist along dir. A miss is
// a normal result, not an error. Rays starting inside a box ignore that box.
func (w *World) CastRay(origin, dir Vec3, maxDist float32) (Hit, bool) {
	dir = dir.Normalize()
	if maxDist <= 0 || dir == (Vec3{}) {
		return Hit{}, false
	}

	var best Hit
	found := false
	for _, c := range w.colliders {
		var (
			t      float32
			normal Vec3
			ok     bool
		)
		switch c.Kind {
		case KindBox:
			t, normal, ok = rayBox(origin, dir, c.Bounds, maxDist)
		case KindRamp:
			t, normal, ok = rayRamp(origin, dir, c, maxDist)
		}
		if !ok {
			continue
		}
		if found && t >= best.Distance {
			continue
		}
		best = Hit{
			Point:    origin.Add(dir.Scale(t)),
			Normal:   normal,
			Distance: t,
			Tag:      c.Name,
		}
		found = true
	}
	return best, found
}

func rayBox(origin, dir Vec3, box AABB, maxDist float32) (float32, Vec3, bool) {
	tMin := float32(0)
	tMax := maxDist
	var normal Vec3

	for i := axisX; i <= axisZ; i++ {
		o := origin.axis(i)
		d := dir.axis(i)
		lo := box.Min.axis(i)
		hi := box.Max.axis(i)

		if math32.Abs(d) < rayParallelTolerance {
			if o < lo || o > hi {
				return 0, Vec3{}, false
			}
			continue
		}

		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		face := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			face = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = Vec3{}
			normal.setAxis(i, face)
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, Vec3{}, false
		}
	}

	if normal == (Vec3{}) {
		return 0, Vec3{}, false
	}
	return tMin, normal, true
}

func rayRamp(origin, dir Vec3, c Collider, maxDist float32) (float32, Vec3, bool) {
	normal := c.surfaceNormal()
	denom := dir.Dot(normal)
	if denom > -rayParallelTolerance {
		return 0, Vec3{}, false
	}

	t := c.lowEdge().Sub(origin).Dot(normal) / denom
	if t < 0 || t > maxDist {
		return 0, Vec3{}, false
	}

	p := origin.Add(dir.Scale(t))
	b := c.Bounds
	if p.X < b.Min.X-CollisionAxisTolerance || p.X > b.Max.X+CollisionAxisTolerance ||
		p.Z < b.Min.Z-CollisionAxisTolerance || p.Z > b.Max.Z+CollisionAxisTolerance {
		return 0, Vec3{}, false
	}
	return t, normal, true
}

// lowEdge is a point on the ramp's sloped plane at its lowest edge.
func (c Collider) lowEdge() Vec3 {
	b := c.Bounds
	switch c.Rise {
	case RiseNegX:
		return Vec3{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z}
	case RiseNegZ:
		return Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z}
	default:
		return b.Min
	}
}
