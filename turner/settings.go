package turner

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Wiring assigns pins to the three buttons and the status LED.
type Wiring struct {
	Mode  int
	Left  int
	Right int
	LED   int
}

// Geometry is the host screen size in pointer units.
type Geometry struct {
	Width  int
	Height int
}

type Settings struct {
	Pins         Wiring
	Debounce     time.Duration
	PollInterval time.Duration
	Screen       Geometry
	MaxStep      int
	MinStep      int
	StepDelay    time.Duration
}

const (
	DefaultModePin  = 5
	DefaultLeftPin  = 18
	DefaultRightPin = 19
	DefaultLEDPin   = 2

	DefaultDebounce     = 50 * time.Millisecond
	DefaultPollInterval = time.Millisecond

	DefaultWidth  = 1404
	DefaultHeight = 1872

	DefaultMaxStep   = 127
	DefaultMinStep   = 8
	DefaultStepDelay = 5 * time.Millisecond

	modeBlink     = 100 * time.Millisecond
	actionBlink   = 10 * time.Millisecond
	maxReportStep = 127
)

func DefaultSettings() Settings {
	return Settings{
		Pins: Wiring{
			Mode:  DefaultModePin,
			Left:  DefaultLeftPin,
			Right: DefaultRightPin,
			LED:   DefaultLEDPin,
		},
		Debounce:     DefaultDebounce,
		PollInterval: DefaultPollInterval,
		Screen:       Geometry{Width: DefaultWidth, Height: DefaultHeight},
		MaxStep:      DefaultMaxStep,
		MinStep:      DefaultMinStep,
		StepDelay:    DefaultStepDelay,
	}
}

func (s Settings) Validate() error {
	bad := func(format string, a ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, fmt.Sprintf(format, a...))
	}

	pins := map[int]string{}
	for _, p := range []struct {
		name string
		pin  int
	}{{"mode", s.Pins.Mode}, {"left", s.Pins.Left}, {"right", s.Pins.Right}, {"led", s.Pins.LED}} {
		if p.pin < 0 {
			return bad("%s pin %d is negative", p.name, p.pin)
		}
		if other, ok := pins[p.pin]; ok {
			return bad("%s and %s share pin %d", other, p.name, p.pin)
		}
		pins[p.pin] = p.name
	}

	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		return bad("screen %dx%d must be positive", s.Screen.Width, s.Screen.Height)
	}
	if s.MinStep <= 0 || s.MaxStep <= 0 {
		return bad("mouse steps must be positive")
	}
	if s.MaxStep > maxReportStep || s.MinStep > maxReportStep {
		return bad("mouse steps must not exceed %d", maxReportStep)
	}
	if s.Debounce < 0 || s.StepDelay < 0 {
		return bad("durations must not be negative")
	}
	if s.PollInterval <= 0 {
		return bad("poll interval must be positive")
	}
	return nil
}
