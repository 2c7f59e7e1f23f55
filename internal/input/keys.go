package input

import (
	"errors"
	"fmt"
	"strings"
)

// Key is one of the keys the sampler understands. Anything else is dropped at
// the boundary.
type Key int

const (
	ArrowUp Key = iota
	ArrowDown
	ArrowLeft
	ArrowRight
	Shift
	Space
)

var ErrUnknownKey = errors.New("unknown key")

var keyNames = map[Key]string{
	ArrowUp:    "ArrowUp",
	ArrowDown:  "ArrowDown",
	ArrowLeft:  "ArrowLeft",
	ArrowRight: "ArrowRight",
	Shift:      "Shift",
	Space:      "Space",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// ParseKey maps a browser-style key name to a Key. Names are case-sensitive,
// as browsers report them. The jump key is reported as a single space.
func ParseKey(name string) (Key, bool) {
	if name == " " {
		return Space, true
	}
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// KeyState is the set of keys held down during a tick.
type KeyState map[Key]bool

// KeyStateFromNames builds a KeyState from raw key names, ignoring the ones
// it does not recognise.
func KeyStateFromNames(pressed map[string]bool) KeyState {
	keys := make(KeyState, len(pressed))
	for name, down := range pressed {
		k, ok := ParseKey(name)
		if !ok {
			continue
		}
		keys[k] = keys[k] || down
	}
	return keys
}

func (s KeyState) String() string {
	var parts []string
	for _, k := range []Key{ArrowUp, ArrowDown, ArrowLeft, ArrowRight, Shift, Space} {
		if s[k] {
			parts = append(parts, k.String())
		}
	}
	if len(parts) == 0 {
		return "idle"
	}
	return strings.Join(parts, "+")
}

// KeySource supplies the held keys for the current tick.
type KeySource interface {
	Keys() KeyState
}
