package input

const DefaultSmoothing = 0.2

// ControlAxes is the per-tick control snapshot consumed by the player
// controller.
type ControlAxes struct {
	Horizontal     float32
	Vertical       float32
	HorizontalAxis int
	VerticalAxis   int
	JumpHeld       bool
	DashHeld       bool
}

// Registrar accepts ordered per-tick steps.
type Registrar interface {
	Register(name string, fn func())
}

// Sampler turns held keys into smoothed control axes. The smoothing factor is
// applied once per Sample call, so response speed follows the tick rate.
type Sampler struct {
	smoothing float32
	axes      ControlAxes
	activated bool
}

func NewSampler(smoothing float32) *Sampler {
	if smoothing <= 0 || smoothing > 1 {
		smoothing = DefaultSmoothing
	}
	return &Sampler{smoothing: smoothing}
}

func (s *Sampler) Smoothing() float32 {
	return s.smoothing
}

func (s *Sampler) Sample(keys KeyState) ControlAxes {
	switch {
	case keys[ArrowUp]:
		s.axes.VerticalAxis = 1
	case keys[ArrowDown]:
		s.axes.VerticalAxis = -1
	default:
		s.axes.VerticalAxis = 0
	}

	switch {
	case keys[ArrowLeft]:
		s.axes.HorizontalAxis = -1
	case keys[ArrowRight]:
		s.axes.HorizontalAxis = 1
	default:
		s.axes.HorizontalAxis = 0
	}

	s.axes.Vertical = smooth(s.axes.Vertical, float32(s.axes.VerticalAxis), s.smoothing)
	s.axes.Horizontal = smooth(s.axes.Horizontal, float32(s.axes.HorizontalAxis), s.smoothing)

	s.axes.DashHeld = keys[Shift]
	s.axes.JumpHeld = keys[Space]

	return s.axes
}

func (s *Sampler) Axes() ControlAxes {
	return s.axes
}

// Reset drops smoothed state, used when a new game starts.
func (s *Sampler) Reset() {
	s.axes = ControlAxes{}
}

// Activate registers the sampling step with the frame scheduler. It must be
// registered before anything that reads Axes in the same tick.
func (s *Sampler) Activate(r Registrar, src KeySource) {
	if s.activated || r == nil || src == nil {
		return
	}
	s.activated = true
	r.Register("input", func() {
		s.Sample(src.Keys())
	})
}

func smooth(value, target, factor float32) float32 {
	return value + factor*(target-value)
}
