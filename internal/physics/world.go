package physics

import "fmt"

type Kind int

const (
	KindBox Kind = iota
	KindRamp
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindRamp:
		return "ramp"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rise is the direction in which a ramp climbs from Bounds.Min.Y to
// Bounds.Max.Y.
type Rise int

const (
	RisePosX Rise = iota
	RiseNegX
	RisePosZ
	RiseNegZ
)

// Collider is a named static shape. The name doubles as the tag reported by
// ray hits.
type Collider struct {
	Name   string
	Kind   Kind
	Bounds AABB
	Rise   Rise
}

func Box(name string, min, max Vec3) Collider {
	return Collider{Name: name, Kind: KindBox, Bounds: AABB{Min: min, Max: max}}
}

func Ramp(name string, min, max Vec3, rise Rise) Collider {
	return Collider{Name: name, Kind: KindRamp, Bounds: AABB{Min: min, Max: max}, Rise: rise}
}

// surfaceHeight returns the ramp's top surface at (x, z) when the point lies
// inside its footprint.
func (c Collider) surfaceHeight(x, z float32) (float32, bool) {
	b := c.Bounds
	if x < b.Min.X || x > b.Max.X || z < b.Min.Z || z > b.Max.Z {
		return 0, false
	}
	t := c.riseFraction(x, z)
	return b.Min.Y + t*(b.Max.Y-b.Min.Y), true
}

func (c Collider) riseFraction(x, z float32) float32 {
	b := c.Bounds
	var t float32
	switch c.Rise {
	case RisePosX:
		t = (x - b.Min.X) / (b.Max.X - b.Min.X)
	case RiseNegX:
		t = (b.Max.X - x) / (b.Max.X - b.Min.X)
	case RisePosZ:
		t = (z - b.Min.Z) / (b.Max.Z - b.Min.Z)
	case RiseNegZ:
		t = (b.Max.Z - z) / (b.Max.Z - b.Min.Z)
	}
	return Clamp(t, 0, 1)
}

// surfaceNormal is the unit normal of the ramp's sloped face.
func (c Collider) surfaceNormal() Vec3 {
	b := c.Bounds
	rise := b.Max.Y - b.Min.Y
	var n Vec3
	switch c.Rise {
	case RisePosX:
		n = Vec3{X: -rise / (b.Max.X - b.Min.X), Y: 1}
	case RiseNegX:
		n = Vec3{X: rise / (b.Max.X - b.Min.X), Y: 1}
	case RisePosZ:
		n = Vec3{Z: -rise / (b.Max.Z - b.Min.Z), Y: 1}
	case RiseNegZ:
		n = Vec3{Z: rise / (b.Max.Z - b.Min.Z), Y: 1}
	}
	return n.Normalize()
}

func (c Collider) Validate() error {
	b := c.Bounds
	if b.Max.X <= b.Min.X || b.Max.Z <= b.Min.Z {
		return fmt.Errorf("collider %q: empty footprint", c.Name)
	}
	if b.Max.Y < b.Min.Y || (c.Kind == KindBox && b.Max.Y == b.Min.Y) {
		return fmt.Errorf("collider %q: inverted height", c.Name)
	}
	if c.Kind != KindBox && c.Kind != KindRamp {
		return fmt.Errorf("collider %q: unknown kind %s", c.Name, c.Kind)
	}
	return nil
}

// Entity is the positionable handle owned by the scene. Movement requests go
// through it instead of through engine inheritance.
type Entity interface {
	Position() Vec3
	SetPosition(pos Vec3)
	Rotation() Quat
	SetRotation(rot Quat)
	Extent() (halfWidth, height float32)
}

// Body is the default Entity: a box-shaped collider whose position is the
// centre of its feet.
type Body struct {
	position  Vec3
	rotation  Quat
	halfWidth float32
	height    float32
}

func NewBody(pos Vec3, halfWidth, height float32) *Body {
	if halfWidth <= 0 {
		halfWidth = DefaultHalfWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Body{
		position:  pos,
		rotation:  IdentityQuat(),
		halfWidth: halfWidth,
		height:    height,
	}
}

func (b *Body) Position() Vec3 { return b.position }

func (b *Body) SetPosition(pos Vec3) { b.position = pos }

func (b *Body) Rotation() Quat { return b.rotation }

func (b *Body) SetRotation(rot Quat) { b.rotation = rot.Normalize() }

func (b *Body) Extent() (float32, float32) { return b.halfWidth, b.height }

// Facing is the horizontal direction e looks at.
func Facing(e Entity) Vec3 {
	return e.Rotation().Rotate(Vec3{Z: 1}).Flat().Normalize()
}

// World is a static collision scene made of boxes and ramps.
type World struct {
	StepHeight float32

	colliders []Collider
}

func NewWorld(colliders ...Collider) *World {
	w := &World{StepHeight: DefaultStepHeight}
	for _, c := range colliders {
		w.Add(c)
	}
	return w
}

func (w *World) Add(c Collider) {
	w.colliders = append(w.colliders, c)
}

func (w *World) Colliders() []Collider {
	out := make([]Collider, len(w.colliders))
	copy(out, w.colliders)
	return out
}

// HeightAt returns the top of the highest surface covering (x, z), used by
// the terminal view to shade the map.
func (w *World) HeightAt(x, z float32) (float32, *Collider, bool) {
	var best *Collider
	var top float32
	for i := range w.colliders {
		c := &w.colliders[i]
		var h float32
		switch c.Kind {
		case KindRamp:
			sh, ok := c.surfaceHeight(x, z)
			if !ok {
				continue
			}
			h = sh
		default:
			b := c.Bounds
			if x < b.Min.X || x > b.Max.X || z < b.Min.Z || z > b.Max.Z {
				continue
			}
			h = b.Max.Y
		}
		if best == nil || h > top {
			best = c
			top = h
		}
	}
	if best == nil {
		return 0, nil, false
	}
	return top, best, true
}
