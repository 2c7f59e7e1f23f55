package event

const (
	EventJump         = "jump"
	EventLand         = "land"
	EventDashStart    = "dash.start"
	EventDashEnd      = "dash.end"
	EventRespawn      = "respawn"
	EventStateChanged = "state.changed"
	EventConfigReload = "config.reload"
)

// MotionEvent carries the controlled entity's position at the moment a
// movement event fired.
type MotionEvent struct {
	Tick     uint64
	X, Y, Z  float32
	Gravity  float32
	Grounded bool
}

type StateChangedEvent struct {
	From string
	To   string
}

type ConfigReloadEvent struct {
	Path string
	Err  error
}
