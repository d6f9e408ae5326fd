package hid

import "fmt"

// Combo is a keyboard and mouse sharing one Link, tracking held keys and
// buttons so every report carries the full state.
type Combo struct {
	link     Link
	started  bool
	keyboard bool
	mouse    bool

	keys    KeyboardState
	buttons MouseButton
}

func NewCombo(link Link) *Combo {
	return &Combo{link: link}
}

func (c *Combo) start() error {
	if c.started {
		return nil
	}
	if err := c.link.Start(); err != nil {
		return fmt.Errorf("start hid link: %w", err)
	}
	c.started = true
	return nil
}

func (c *Combo) BeginKeyboard() error {
	if err := c.start(); err != nil {
		return err
	}
	c.keyboard = true
	return nil
}

func (c *Combo) BeginMouse() error {
	if err := c.start(); err != nil {
		return err
	}
	c.mouse = true
	return nil
}

func (c *Combo) IsConnected() bool {
	return c.started && c.link.Connected()
}

func (c *Combo) send(report []byte) error {
	if !c.link.Connected() {
		return ErrNotConnected
	}
	return c.link.WriteReport(report)
}

func clampStep(v int) int {
	if v > 127 {
		return 127
	}
	if v < -127 {
		return -127
	}
	return v
}

// Move sends at least one report; deltas beyond ±127 are split across
// several reports.
func (c *Combo) Move(dx, dy int) error {
	if !c.mouse {
		return ErrNotStarted
	}
	for first := true; first || dx != 0 || dy != 0; first = false {
		sx, sy := clampStep(dx), clampStep(dy)
		dx -= sx
		dy -= sy
		st := MouseState{Buttons: c.buttons, DX: int8(sx), DY: int8(sy)}
		if err := c.send(st.BuildReport()); err != nil {
			return err
		}
	}
	return nil
}

func (c *Combo) Click(b MouseButton) error {
	if err := c.Press(b); err != nil {
		return err
	}
	return c.Release(b)
}

func (c *Combo) Press(b MouseButton) error {
	if !c.mouse {
		return ErrNotStarted
	}
	c.buttons |= b
	st := MouseState{Buttons: c.buttons}
	return c.send(st.BuildReport())
}

func (c *Combo) Release(b MouseButton) error {
	if !c.mouse {
		return ErrNotStarted
	}
	c.buttons &^= b
	st := MouseState{Buttons: c.buttons}
	return c.send(st.BuildReport())
}

// KeyPress adds k to the held keys. A key that is already held, or a seventh
// key, changes nothing and sends nothing.
func (c *Combo) KeyPress(k Key) error {
	if !c.keyboard {
		return ErrNotStarted
	}
	if k == 0 {
		return nil
	}
	free := -1
	for i, held := range c.keys.Keys {
		if held == k {
			return nil
		}
		if held == 0 && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return nil
	}
	c.keys.Keys[free] = k
	return c.send(c.keys.BuildReport())
}

func (c *Combo) KeyReleaseAll() error {
	if !c.keyboard {
		return ErrNotStarted
	}
	c.keys = KeyboardState{}
	return c.send(c.keys.BuildReport())
}

func (c *Combo) Close() error {
	return c.link.Close()
}
