package turner

import (
	"time"

	"github.com/mastercactapus/pageturner/pins"
)

// ButtonID indexes the fixed button registry.
type ButtonID int

const (
	ModeButton ButtonID = iota
	LeftButton
	RightButton
	ButtonCount
)

func (b ButtonID) String() string {
	switch b {
	case ModeButton:
		return "mode"
	case LeftButton:
		return "left"
	case RightButton:
		return "right"
	}
	return "unknown"
}

// Button is one active-low push-button: Low means pressed.
type Button struct {
	pin              int
	lastDebounceTime time.Duration
	state            pins.Level
	lastState        pins.Level
	pressed          bool
	actions          [ModeCount]Action
}

func newButton(pin int, actions [ModeCount]Action) Button {
	return Button{
		pin:       pin,
		state:     pins.High,
		lastState: pins.High,
		actions:   actions,
	}
}

// update runs the debounce filter for one sample and reports whether it
// produced a press edge.
//
// Any change from the previous raw sample restarts the settle timer; the
// debounced state only follows the reading once the timer has run for longer
// than window. Stability is judged against the previous sample, not against a
// pending candidate level.
func (b *Button) update(reading pins.Level, now, window time.Duration) bool {
	edge := false
	if reading != b.lastState {
		b.lastDebounceTime = now
	}
	if now-b.lastDebounceTime > window && reading != b.state {
		b.state = reading
		if b.state == pins.Low {
			b.pressed = true
			edge = true
		}
	}
	b.lastState = reading
	return edge
}

// ButtonState is a read-only snapshot of a Button.
type ButtonState struct {
	Pin              int
	LastDebounceTime time.Duration
	State            pins.Level
	LastState        pins.Level
	Pressed          bool
}

func (b *Button) snapshot() ButtonState {
	return ButtonState{
		Pin:              b.pin,
		LastDebounceTime: b.lastDebounceTime,
		State:            b.state,
		LastState:        b.lastState,
		Pressed:          b.pressed,
	}
}
