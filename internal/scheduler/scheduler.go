package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultTickRate = 60
	maxFrameDelta   = 250 * time.Millisecond
)

type step struct {
	name string
	fn   func()
}

// Scheduler runs registered steps once per frame, in registration order, on
// a single goroutine. Post is the only method that may be called from other
// goroutines while Run is active.
type Scheduler struct {
	mu     sync.Mutex
	posted []func()

	steps []step
	clock *FrameClock
	ticks uint64
}

func New() *Scheduler {
	return &Scheduler{clock: &FrameClock{}}
}

func (s *Scheduler) Clock() *FrameClock {
	return s.clock
}

func (s *Scheduler) Register(name string, fn func()) {
	if fn == nil {
		return
	}
	s.steps = append(s.steps, step{name: name, fn: fn})
	slog.Debug("Registered frame step", "name", name, "order", len(s.steps))
}

// Post queues fn to run on the frame goroutine before the next frame's
// steps.
func (s *Scheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

func (s *Scheduler) Steps() []string {
	names := make([]string, len(s.steps))
	for i, st := range s.steps {
		names[i] = st.name
	}
	return names
}

func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Step advances one frame of length dt.
func (s *Scheduler) Step(dt time.Duration) {
	s.drainPosted()

	s.clock.advance(dt)
	for _, st := range s.steps {
		st.fn()
	}
	s.ticks++
}

// Run steps the scheduler rate times per second until ctx is done. The frame
// delta is the measured wall time since the previous frame.
func (s *Scheduler) Run(ctx context.Context, rate int) error {
	if rate <= 0 {
		return fmt.Errorf("invalid tick rate %d", rate)
	}
	interval := time.Second / time.Duration(rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Frame loop started", "rate", rate, "steps", s.Steps())
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Frame loop stopped", "ticks", s.ticks)
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > maxFrameDelta {
				dt = maxFrameDelta
			}
			s.Step(dt)
		}
	}
}

func (s *Scheduler) drainPosted() {
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()

	for _, fn := range posted {
		fn()
	}
}

// FrameClock reports the length of the frame being stepped.
type FrameClock struct {
	delta   time.Duration
	elapsed time.Duration
}

func (c *FrameClock) DeltaSeconds() float32 {
	return float32(c.delta.Seconds())
}

func (c *FrameClock) Delta() time.Duration {
	return c.delta
}

func (c *FrameClock) Elapsed() time.Duration {
	return c.elapsed
}

func (c *FrameClock) advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	c.delta = dt
	c.elapsed += dt
}
