package input

import (
	"fmt"
	"strconv"
	"strings"
)

// ScriptStep holds a key combination for a number of ticks.
type ScriptStep struct {
	Keys  KeyState
	Ticks int
}

// ParseScript reads a comma separated list of "Key+Key:ticks" steps. The
// pseudo key "idle" holds nothing. Unlike live input, unknown key names are
// rejected here.
func ParseScript(s string) ([]ScriptStep, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var steps []ScriptStep
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		combo, countStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("script step %q: missing tick count", part)
		}
		ticks, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || ticks <= 0 {
			return nil, fmt.Errorf("script step %q: invalid tick count", part)
		}

		keys := make(KeyState)
		for _, name := range strings.Split(combo, "+") {
			name = strings.TrimSpace(name)
			if strings.EqualFold(name, "idle") {
				continue
			}
			k, ok := ParseKey(name)
			if !ok {
				return nil, fmt.Errorf("script step %q: %w %q", part, ErrUnknownKey, name)
			}
			keys[k] = true
		}
		steps = append(steps, ScriptStep{Keys: keys, Ticks: ticks})
	}
	return steps, nil
}

// Script replays steps one tick per Keys call. After the last step it reports
// no keys.
type Script struct {
	steps []ScriptStep
	index int
	used  int
}

func NewScript(steps []ScriptStep) *Script {
	return &Script{steps: steps}
}

func (s *Script) Keys() KeyState {
	for s.index < len(s.steps) && s.used >= s.steps[s.index].Ticks {
		s.index++
		s.used = 0
	}
	if s.index >= len(s.steps) {
		return KeyState{}
	}
	s.used++
	return s.steps[s.index].Keys
}

func (s *Script) Done() bool {
	if s.index >= len(s.steps) {
		return true
	}
	return s.index == len(s.steps)-1 && s.used >= s.steps[s.index].Ticks
}

// TotalTicks is the number of ticks the script drives.
func (s *Script) TotalTicks() int {
	total := 0
	for _, step := range s.steps {
		total += step.Ticks
	}
	return total
}
