package player

// Tuning holds the movement constants. Speeds and forces are applied per
// tick; gravity is scaled by the frame delta.
type Tuning struct {
	Speed      float32 `yaml:"speed" toml:"speed"`
	JumpForce  float32 `yaml:"jump_force" toml:"jump_force"`
	Gravity    float32 `yaml:"gravity" toml:"gravity"`
	DashFactor float32 `yaml:"dash_factor" toml:"dash_factor"`
	DashTicks  int     `yaml:"dash_ticks" toml:"dash_ticks"`
	TurnRate   float32 `yaml:"turn_rate" toml:"turn_rate"`

	GroundRayLift   float32 `yaml:"ground_ray_lift" toml:"ground_ray_lift"`
	GroundRayLength float32 `yaml:"ground_ray_length" toml:"ground_ray_length"`
	SlopeRayOffset  float32 `yaml:"slope_ray_offset" toml:"slope_ray_offset"`
	SlopeRayLength  float32 `yaml:"slope_ray_length" toml:"slope_ray_length"`
	SlopeTag        string  `yaml:"slope_tag" toml:"slope_tag"`

	KillPlaneY float32 `yaml:"kill_plane_y" toml:"kill_plane_y"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Speed:           0.45,
		JumpForce:       0.80,
		Gravity:         -2.8,
		DashFactor:      2.5,
		DashTicks:       10,
		TurnRate:        10,
		GroundRayLift:   0.5,
		GroundRayLength: 0.6,
		SlopeRayOffset:  0.25,
		SlopeRayLength:  1.5,
		SlopeTag:        "stair",
		KillPlaneY:      -30,
	}
}

// WithDefaults fills zero fields from DefaultTuning. KillPlaneY is kept as
// given since zero is a valid height, and DashTicks only when negative since
// a zero-tick dash is a valid setting.
func (t Tuning) WithDefaults() Tuning {
	d := DefaultTuning()
	if t.Speed == 0 {
		t.Speed = d.Speed
	}
	if t.JumpForce == 0 {
		t.JumpForce = d.JumpForce
	}
	if t.Gravity == 0 {
		t.Gravity = d.Gravity
	}
	if t.DashFactor == 0 {
		t.DashFactor = d.DashFactor
	}
	if t.DashTicks < 0 {
		t.DashTicks = d.DashTicks
	}
	if t.TurnRate == 0 {
		t.TurnRate = d.TurnRate
	}
	if t.GroundRayLift == 0 {
		t.GroundRayLift = d.GroundRayLift
	}
	if t.GroundRayLength == 0 {
		t.GroundRayLength = d.GroundRayLength
	}
	if t.SlopeRayOffset == 0 {
		t.SlopeRayOffset = d.SlopeRayOffset
	}
	if t.SlopeRayLength == 0 {
		t.SlopeRayLength = d.SlopeRayLength
	}
	if t.SlopeTag == "" {
		t.SlopeTag = d.SlopeTag
	}
	return t
}
