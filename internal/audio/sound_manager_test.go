package audio

import (
	"testing"
	"time"

	"github.com/Versifine/stride/internal/event"
	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestSoundManager_CuesFollowEvents(t *testing.T) {
	sm := NewSoundManager(0.5)
	var played []beep.Streamer
	sm.sink = func(s beep.Streamer) { played = append(played, s) }

	bus := event.NewBus()
	sm.Subscribe(bus)

	bus.Publish(event.EventJump, event.MotionEvent{})
	bus.Publish(event.EventDashEnd, event.MotionEvent{})
	bus.Publish(event.EventLand, event.MotionEvent{})

	require.Len(t, played, 2)
	assert.Equal(t, sampleRate.N(60*time.Millisecond), drain(played[0]))
	assert.Equal(t, sampleRate.N(40*time.Millisecond), drain(played[1]))
}

func TestSoundManager_SilentWithoutSpeaker(t *testing.T) {
	sm := NewSoundManager(1)
	assert.NotPanics(t, func() {
		sm.Play(event.EventJump)
		sm.Play("unknown")
		sm.Close()
	})
}

func TestSoundManager_ZeroVolume(t *testing.T) {
	sm := NewSoundManager(-1)
	var played []beep.Streamer
	sm.sink = func(s beep.Streamer) { played = append(played, s) }

	sm.Play(event.EventRespawn)

	require.Len(t, played, 1)
	buf := make([][2]float64, 64)
	n, ok := played[0].Stream(buf)
	require.True(t, ok)
	for _, sample := range buf[:n] {
		assert.Zero(t, sample[0])
	}
}
