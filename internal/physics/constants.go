package physics

const (
	DefaultHalfWidth  = 1.0
	DefaultHeight     = 3.0
	DefaultStepHeight = 0.75

	CollisionAxisTolerance = 1e-5
)

const (
	axisX = iota
	axisY
	axisZ
)
