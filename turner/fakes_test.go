package turner

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mastercactapus/pageturner/hid"
	"github.com/mastercactapus/pageturner/pins"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration    { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now += d }

type fakePins struct {
	levels  map[int]pins.Level
	inputs  []int
	outputs []int
	writes  []string
	readErr error

	// lazy mimics a bank that connects on first access and cannot take
	// pull-ups after that.
	lazy      bool
	connected bool
}

var errConnected = errors.New("bank already connected")

func newFakePins() *fakePins {
	return &fakePins{levels: map[int]pins.Level{}}
}

func (p *fakePins) ConfigureInputPullup(pin int) error {
	if p.connected {
		return errConnected
	}
	p.inputs = append(p.inputs, pin)
	return nil
}

func (p *fakePins) ConfigureOutput(pin int) error {
	p.outputs = append(p.outputs, pin)
	return nil
}

func (p *fakePins) ReadDigital(pin int) (pins.Level, error) {
	p.connected = p.lazy
	if p.readErr != nil {
		return pins.Low, p.readErr
	}
	if lv, ok := p.levels[pin]; ok {
		return lv, nil
	}
	return pins.High, nil
}

func (p *fakePins) WriteDigital(pin int, lv pins.Level) error {
	p.connected = p.lazy
	p.writes = append(p.writes, fmt.Sprintf("%d=%s", pin, lv))
	return nil
}

func (p *fakePins) Close() error { return nil }

// fakeHID records every call as a short string, and the clock reading at the
// time of the call when clock is set.
type fakeHID struct {
	connected bool
	calls     []string
	moveErr   error

	clock *fakeClock
	at    []time.Duration
}

func (h *fakeHID) record(format string, a ...any) {
	h.calls = append(h.calls, fmt.Sprintf(format, a...))
	if h.clock != nil {
		h.at = append(h.at, h.clock.now)
	}
}

func (h *fakeHID) BeginKeyboard() error { h.record("begin keyboard"); return nil }
func (h *fakeHID) BeginMouse() error    { h.record("begin mouse"); return nil }
func (h *fakeHID) IsConnected() bool    { return h.connected }

func (h *fakeHID) Move(dx, dy int) error {
	if h.moveErr != nil {
		return h.moveErr
	}
	h.record("move %d,%d", dx, dy)
	return nil
}

func (h *fakeHID) Click(b hid.MouseButton) error   { h.record("click %s", b); return nil }
func (h *fakeHID) Press(b hid.MouseButton) error   { h.record("press %s", b); return nil }
func (h *fakeHID) Release(b hid.MouseButton) error { h.record("release %s", b); return nil }
func (h *fakeHID) KeyPress(k hid.Key) error        { h.record("key %s", k); return nil }
func (h *fakeHID) KeyReleaseAll() error            { h.record("release keys"); return nil }

func (h *fakeHID) reset() {
	h.calls = nil
	h.at = nil
}

type rig struct {
	d       *Dongle
	clock   *fakeClock
	pins    *fakePins
	hid     *fakeHID
	console *bytes.Buffer
	hook    *test.Hook
}

func newRig(t *testing.T) *rig {
	t.Helper()
	logger, hook := test.NewNullLogger()
	r := &rig{
		clock:   &fakeClock{now: time.Second},
		pins:    newFakePins(),
		hid:     &fakeHID{connected: true},
		console: &bytes.Buffer{},
		hook:    hook,
	}
	r.hid.clock = r.clock
	d, err := New(Options{
		Settings: DefaultSettings(),
		Pins:     r.pins,
		HID:      r.hid,
		Clock:    r.clock,
		Console:  r.console,
		Log:      logger,
	})
	require.NoError(t, err)
	require.NoError(t, d.Setup())
	r.d = d
	r.hid.reset()
	r.pins.writes = nil
	return r
}

// hold keeps pin at lv for dur, polling once per millisecond.
func (r *rig) hold(t *testing.T, pin int, lv pins.Level, dur time.Duration) {
	t.Helper()
	r.pins.levels[pin] = lv
	for end := r.clock.now + dur; r.clock.now < end; r.clock.now += time.Millisecond {
		require.NoError(t, r.d.Poll())
	}
}

// press holds pin low and then high, each for longer than the debounce window.
func (r *rig) press(t *testing.T, pin int) {
	t.Helper()
	r.hold(t, pin, pins.Low, 2*DefaultDebounce)
	r.hold(t, pin, pins.High, 2*DefaultDebounce)
}

func (r *rig) moves() []string {
	var m []string
	for _, c := range r.hid.calls {
		if len(c) > 5 && c[:5] == "move " {
			m = append(m, c)
		}
	}
	return m
}

// expectTravel builds the move log of a travel call.
func expectTravel(a Axis, dir Direction, distance, step int) []string {
	format := "move %d,0"
	if a == AxisY {
		format = "move 0,%d"
	}
	var out []string
	for i := 0; i < distance/step; i++ {
		out = append(out, fmt.Sprintf(format, int(dir)*step))
	}
	return append(out, fmt.Sprintf(format, int(dir)*(distance%step)))
}
