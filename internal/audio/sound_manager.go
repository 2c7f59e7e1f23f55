package audio

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/event"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type cue struct {
	freq     float64
	duration time.Duration
}

var cues = map[string]cue{
	event.EventJump:      {freq: 660, duration: 60 * time.Millisecond},
	event.EventLand:      {freq: 220, duration: 40 * time.Millisecond},
	event.EventDashStart: {freq: 880, duration: 80 * time.Millisecond},
	event.EventRespawn:   {freq: 330, duration: 200 * time.Millisecond},
}

type Subscriber interface {
	Subscribe(eventName string, handler event.HandlerFunc)
}

// SoundManager plays short synthesized cues for movement events.
type SoundManager struct {
	mu          sync.Mutex
	volume      float64
	mixer       *beep.Mixer
	initialized bool
	// sink receives finished cue streamers; nil plays them on the speaker.
	sink func(beep.Streamer)
}

func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		volume: math.Max(0, math.Min(1, volume)),
		mixer:  &beep.Mixer{},
	}
}

// Initialize opens the speaker. Callers treat a failure as "no sound".
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

func (sm *SoundManager) Subscribe(bus Subscriber) {
	for name := range cues {
		bus.Subscribe(name, func(any) {
			sm.Play(name)
		})
	}
}

// Play queues the cue for eventName. Unknown names and an uninitialized
// speaker are ignored.
func (sm *SoundManager) Play(eventName string) {
	c, ok := cues[eventName]
	if !ok {
		return
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized && sm.sink == nil {
		return
	}
	s, err := sm.tone(c)
	if err != nil {
		slog.Debug("Cue generation failed", "event", eventName, "error", err)
		return
	}
	if sm.sink != nil {
		sm.sink(s)
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

func (sm *SoundManager) tone(c cue) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, c.freq)
	if err != nil {
		return nil, err
	}
	s := beep.Take(sampleRate.N(c.duration), sine)
	if sm.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}, nil
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(sm.volume)}, nil
}

func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}
