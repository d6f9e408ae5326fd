package pins

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// DefaultHold is how long a pin stays Low after a key event. Terminals report
// no key release, only repeats, so the hold has to outlast the initial repeat
// delay (commonly 250 to 660 ms) or a long press reads as two. The cost is a
// release that lands DefaultHold after the last event.
const DefaultHold = 700 * time.Millisecond

// Binding ties terminal keys to a simulated button pin.
type Binding struct {
	Label string
	Pin   int
	Runes []rune
	Keys  []tcell.Key
}

// holdTracker reports a pin as pressed for a hold window after each key event.
type holdTracker struct {
	mu   sync.Mutex
	hold time.Duration
	last map[int]time.Time
}

func newHoldTracker(hold time.Duration) *holdTracker {
	return &holdTracker{hold: hold, last: make(map[int]time.Time)}
}

func (h *holdTracker) touch(pin int, t time.Time) {
	h.mu.Lock()
	h.last[pin] = t
	h.mu.Unlock()
}

func (h *holdTracker) level(pin int, now time.Time) Level {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.last[pin]
	if ok && now.Sub(t) < h.hold {
		return Low
	}
	return High
}

// Terminal simulates the button board in a terminal. Bound keys pull their
// pin Low, the LED pin is drawn as a lamp and the console and log buffers are
// shown below it.
type Terminal struct {
	screen   tcell.Screen
	bindings []Binding
	led      int
	tracker  *holdTracker
	console  *LogBuffer
	logs     *LogBuffer

	mu      sync.Mutex
	outputs map[int]Level
	inputs  map[int]bool

	done     chan struct{}
	doneOnce sync.Once
	now      func() time.Time
}

// NewTerminal takes over the controlling terminal.
func NewTerminal(bindings []Binding, led int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return newTerminal(screen, bindings, led, DefaultHold)
}

func newTerminal(screen tcell.Screen, bindings []Binding, led int, hold time.Duration) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	t := &Terminal{
		screen:   screen,
		bindings: bindings,
		led:      led,
		tracker:  newHoldTracker(hold),
		console:  NewLogBuffer(8),
		logs:     NewLogBuffer(100),
		outputs:  make(map[int]Level),
		inputs:   make(map[int]bool),
		done:     make(chan struct{}),
		now:      time.Now,
	}
	t.console.onChange(t.draw)
	t.logs.onChange(t.draw)

	go t.pollEvents()
	t.draw()
	return t, nil
}

// Console is the serial console pane.
func (t *Terminal) Console() io.Writer { return t.console }

// Logs is the log pane; point the logger at it while the screen is active.
func (t *Terminal) Logs() io.Writer { return t.logs }

// Done is closed when the user quits with Esc, q or Ctrl-C.
func (t *Terminal) Done() <-chan struct{} { return t.done }

func (t *Terminal) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.screen.Sync()
			t.draw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				t.doneOnce.Do(func() { close(t.done) })
				continue
			}
			if b, ok := t.match(ev); ok {
				t.tracker.touch(b.Pin, t.now())
				t.draw()
			}
		}
	}
}

func (t *Terminal) match(ev *tcell.EventKey) (Binding, bool) {
	for _, b := range t.bindings {
		if ev.Key() == tcell.KeyRune {
			for _, r := range b.Runes {
				if r == ev.Rune() {
					return b, true
				}
			}
			continue
		}
		for _, k := range b.Keys {
			if k == ev.Key() {
				return b, true
			}
		}
	}
	return Binding{}, false
}

func (t *Terminal) ConfigureInputPullup(pin int) error {
	t.mu.Lock()
	t.inputs[pin] = true
	t.mu.Unlock()
	return nil
}

func (t *Terminal) ConfigureOutput(pin int) error {
	t.mu.Lock()
	t.outputs[pin] = Low
	t.mu.Unlock()
	return nil
}

func (t *Terminal) ReadDigital(pin int) (Level, error) {
	return t.tracker.level(pin, t.now()), nil
}

func (t *Terminal) WriteDigital(pin int, l Level) error {
	t.mu.Lock()
	t.outputs[pin] = l
	t.mu.Unlock()
	t.draw()
	return nil
}

func (t *Terminal) Close() error {
	t.doneOnce.Do(func() { close(t.done) })
	t.screen.Fini()
	return nil
}

func (t *Terminal) draw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.screen
	s.Clear()
	base := tcell.StyleDefault
	dim := base.Foreground(tcell.ColorGray)

	drawText(s, 0, 0, base.Bold(true), "pageturner  (q/Esc to quit)")
	y := 2
	now := t.now()
	for _, b := range t.bindings {
		lv := t.tracker.level(b.Pin, now)
		st := base
		if lv == Low {
			st = base.Foreground(tcell.ColorYellow).Bold(true)
		}
		drawText(s, 0, y, st, fmt.Sprintf("[%s] %-6s pin %-3d %s", keyLabel(b), b.Label, b.Pin, lv))
		y++
	}

	lamp := dim
	if t.outputs[t.led] == High {
		lamp = base.Foreground(tcell.ColorGreen).Bold(true)
	}
	drawText(s, 0, y+1, lamp, fmt.Sprintf("LED pin %d ●", t.led))
	y += 3

	drawText(s, 0, y, dim, "console")
	y++
	for _, line := range t.console.Recent(4) {
		drawText(s, 2, y, base, line)
		y++
	}
	y++

	_, h := s.Size()
	drawText(s, 0, y, dim, "log")
	y++
	if room := h - y; room > 0 {
		for _, line := range t.logs.Recent(room) {
			drawText(s, 2, y, dim, line)
			y++
		}
	}
	s.Show()
}

func keyLabel(b Binding) string {
	if len(b.Runes) > 0 {
		return string(b.Runes[0])
	}
	if len(b.Keys) > 0 {
		return tcell.KeyNames[b.Keys[0]]
	}
	return "?"
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
