package physics

import "github.com/chewxy/math32"

// Quat is a unit quaternion describing an orientation.
type Quat struct {
	X float32
	Y float32
	Z float32
	W float32
}

func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromYaw builds a rotation of yaw radians around the up axis.
func QuatFromYaw(yaw float32) Quat {
	half := yaw / 2
	return Quat{Y: math32.Sin(half), W: math32.Cos(half)}
}

// Yaw extracts the heading around the up axis.
func (q Quat) Yaw() float32 {
	return math32.Atan2(2*(q.W*q.Y+q.X*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
}

func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.Dot(q))
	if l <= CollisionAxisTolerance {
		return IdentityQuat()
	}
	inv := 1 / l
	return Quat{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Slerp interpolates along the shortest arc from q to other. t is not
// clamped by this method.
func (q Quat) Slerp(other Quat, t float32) Quat {
	if t == 0 {
		return q
	}
	if t == 1 {
		return other
	}

	target := other
	cosHalfTheta := q.Dot(other)
	if cosHalfTheta < 0 {
		target = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
		cosHalfTheta = -cosHalfTheta
	}
	if cosHalfTheta >= 1 {
		return q
	}

	sqrSinHalfTheta := 1 - cosHalfTheta*cosHalfTheta
	if sqrSinHalfTheta < 0.001 {
		s := 1 - t
		return Quat{
			X: s*q.X + t*target.X,
			Y: s*q.Y + t*target.Y,
			Z: s*q.Z + t*target.Z,
			W: s*q.W + t*target.W,
		}.Normalize()
	}

	sinHalfTheta := math32.Sqrt(sqrSinHalfTheta)
	halfTheta := math32.Atan2(sinHalfTheta, cosHalfTheta)
	ratioA := math32.Sin((1-t)*halfTheta) / sinHalfTheta
	ratioB := math32.Sin(t*halfTheta) / sinHalfTheta

	return Quat{
		X: q.X*ratioA + target.X*ratioB,
		Y: q.Y*ratioA + target.Y*ratioB,
		Z: q.Z*ratioA + target.Z*ratioB,
		W: q.W*ratioA + target.W*ratioB,
	}
}
