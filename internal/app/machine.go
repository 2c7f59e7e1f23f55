package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Versifine/stride/internal/event"
)

const DefaultCutsceneDuration = 3 * time.Second

var ErrInvalidTransition = errors.New("invalid transition")

type State int

const (
	StateStart State = iota
	StateCutscene
	StateGame
	StateLose
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateCutscene:
		return "cutscene"
	case StateGame:
		return "game"
	case StateLose:
		return "lose"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Trigger int

const (
	TriggerPlay Trigger = iota
	TriggerSkip
	TriggerCutsceneDone
	TriggerLose
	TriggerMenu
)

func (t Trigger) String() string {
	switch t {
	case TriggerPlay:
		return "play"
	case TriggerSkip:
		return "skip"
	case TriggerCutsceneDone:
		return "cutscene-done"
	case TriggerLose:
		return "lose"
	case TriggerMenu:
		return "menu"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

var transitions = map[State]map[Trigger]State{
	StateStart:    {TriggerPlay: StateCutscene},
	StateCutscene: {TriggerSkip: StateGame, TriggerCutsceneDone: StateGame},
	StateGame:     {TriggerLose: StateLose},
	StateLose:     {TriggerMenu: StateStart},
}

type Publisher interface {
	Publish(eventName string, evt any)
}

type Option func(*Machine)

func WithCutsceneDuration(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.cutscene = d
		}
	}
}

// Machine drives the screen flow start -> cutscene -> game -> lose -> start.
// It is stepped from the frame loop and is not safe for concurrent use.
type Machine struct {
	state       State
	pub         Publisher
	cutscene    time.Duration
	timeInState time.Duration
	enter       map[State][]func(from State)
}

func New(pub Publisher, opts ...Option) *Machine {
	m := &Machine{
		state:    StateStart,
		pub:      pub,
		cutscene: DefaultCutsceneDuration,
		enter:    make(map[State][]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) TimeInState() time.Duration {
	return m.timeInState
}

// OnEnter adds a hook run after the machine enters state. Hooks run in the
// order they were added and receive the state that was left.
func (m *Machine) OnEnter(state State, fn func(from State)) {
	if fn == nil {
		return
	}
	m.enter[state] = append(m.enter[state], fn)
}

func (m *Machine) Fire(t Trigger) error {
	next, ok := transitions[m.state][t]
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, t, m.state)
	}
	from := m.state
	m.state = next
	m.timeInState = 0
	slog.Info("State changed", "from", from, "to", next, "trigger", t)

	for _, fn := range m.enter[next] {
		fn(from)
	}
	if m.pub != nil {
		m.pub.Publish(event.EventStateChanged, event.StateChangedEvent{From: from.String(), To: next.String()})
	}
	return nil
}

// Next fires the trigger a "confirm" press means in the current state.
func (m *Machine) Next() error {
	switch m.state {
	case StateStart:
		return m.Fire(TriggerPlay)
	case StateCutscene:
		return m.Fire(TriggerSkip)
	case StateLose:
		return m.Fire(TriggerMenu)
	default:
		return fmt.Errorf("%w: no default trigger in %s", ErrInvalidTransition, m.state)
	}
}

// Tick advances the time spent in the current state and finishes the
// cutscene once it has played for its full duration.
func (m *Machine) Tick(dt time.Duration) {
	if dt > 0 {
		m.timeInState += dt
	}
	if m.state == StateCutscene && m.timeInState >= m.cutscene {
		_ = m.Fire(TriggerCutsceneDone)
	}
}
