package turner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	cases := map[string]func(s *Settings){
		"negative pin":      func(s *Settings) { s.Pins.Left = -1 },
		"shared pin":        func(s *Settings) { s.Pins.LED = s.Pins.Mode },
		"zero width":        func(s *Settings) { s.Screen.Width = 0 },
		"negative height":   func(s *Settings) { s.Screen.Height = -5 },
		"zero min step":     func(s *Settings) { s.MinStep = 0 },
		"max step too big":  func(s *Settings) { s.MaxStep = 128 },
		"negative debounce": func(s *Settings) { s.Debounce = -time.Millisecond },
		"negative delay":    func(s *Settings) { s.StepDelay = -time.Millisecond },
		"zero poll":         func(s *Settings) { s.PollInterval = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := DefaultSettings()
			mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}

	s := DefaultSettings()
	s.Debounce = 0
	s.StepDelay = 0
	assert.NoError(t, s.Validate(), "zero durations are allowed")
}

func TestModeNext(t *testing.T) {
	assert.Equal(t, Mode2, Mode1.Next())
	assert.Equal(t, Mode3, Mode2.Next())
	assert.Equal(t, Mode1, Mode3.Next())
	assert.Equal(t, "MODE1", Mode1.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
