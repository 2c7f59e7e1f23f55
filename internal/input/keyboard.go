package input

import (
	"sync"
	"time"
)

const DefaultHoldWindow = 150 * time.Millisecond

// Keyboard is a KeySource fed from a terminal. Terminals report presses and
// auto-repeats but never releases, so a key stays held until its hold window
// passes without another press.
type Keyboard struct {
	mu         sync.Mutex
	holdWindow time.Duration
	heldUntil  map[Key]time.Time
	now        func() time.Time
}

func NewKeyboard(holdWindow time.Duration) *Keyboard {
	if holdWindow <= 0 {
		holdWindow = DefaultHoldWindow
	}
	return &Keyboard{
		holdWindow: holdWindow,
		heldUntil:  make(map[Key]time.Time),
		now:        time.Now,
	}
}

func (kb *Keyboard) Press(k Key) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.heldUntil[k] = kb.now().Add(kb.holdWindow)
	switch k {
	case ArrowUp:
		delete(kb.heldUntil, ArrowDown)
	case ArrowDown:
		delete(kb.heldUntil, ArrowUp)
	case ArrowLeft:
		delete(kb.heldUntil, ArrowRight)
	case ArrowRight:
		delete(kb.heldUntil, ArrowLeft)
	}
}

func (kb *Keyboard) Release(k Key) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	delete(kb.heldUntil, k)
}

func (kb *Keyboard) Clear() {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.heldUntil = make(map[Key]time.Time)
}

func (kb *Keyboard) Keys() KeyState {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	now := kb.now()
	keys := make(KeyState, len(kb.heldUntil))
	for k, until := range kb.heldUntil {
		if !now.Before(until) {
			delete(kb.heldUntil, k)
			continue
		}
		keys[k] = true
	}
	return keys
}
