package physics

import "github.com/chewxy/math32"

type Vec3 struct {
	X float32
	Y float32
	Z float32
}

var (
	Zero = Vec3{}
	Up   = Vec3{Y: 1}
	Down = Vec3{Y: -1}
)

func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector pointing along v. The zero vector stays
// zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l <= CollisionAxisTolerance {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

func (v Vec3) NearlyEqual(o Vec3, tol float32) bool {
	return math32.Abs(v.X-o.X) <= tol &&
		math32.Abs(v.Y-o.Y) <= tol &&
		math32.Abs(v.Z-o.Z) <= tol
}

func (v Vec3) axis(i int) float32 {
	switch i {
	case axisX:
		return v.X
	case axisY:
		return v.Y
	default:
		return v.Z
	}
}

func (v *Vec3) setAxis(i int, value float32) {
	switch i {
	case axisX:
		v.X = value
	case axisY:
		v.Y = value
	default:
		v.Z = value
	}
}

// Clamp limits value to [lo, hi].
func Clamp(value, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, value))
}

// Lerp interpolates a scalar toward target by factor t.
func Lerp(value, target, t float32) float32 {
	return value + (target-value)*t
}
