// Package hid emits keyboard and mouse input to a paired host.
package hid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotStarted   = errors.New("hid device not started")
	ErrNotConnected = errors.New("hid host not connected")
	ErrUnknownLink  = errors.New("unknown hid link")
)

// MouseButton is a bit in the mouse report button mask.
type MouseButton uint8

const (
	MouseLeft   MouseButton = 1 << 0
	MouseRight  MouseButton = 1 << 1
	MouseMiddle MouseButton = 1 << 2
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	}
	return fmt.Sprintf("buttons(0x%02x)", uint8(b))
}

// Key is a HID keyboard usage code.
type Key uint8

const (
	KeyEnter      Key = 0x28
	KeyEscape     Key = 0x29
	KeySpace      Key = 0x2C
	KeyPageUp     Key = 0x4B
	KeyPageDown   Key = 0x4E
	KeyRightArrow Key = 0x4F
	KeyLeftArrow  Key = 0x50
	KeyDownArrow  Key = 0x51
	KeyUpArrow    Key = 0x52
)

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyRightArrow:
		return "RightArrow"
	case KeyLeftArrow:
		return "LeftArrow"
	case KeyDownArrow:
		return "DownArrow"
	case KeyUpArrow:
		return "UpArrow"
	}
	return fmt.Sprintf("Key(0x%02x)", uint8(k))
}

// Device is the keyboard and mouse capability the button engine drives.
type Device interface {
	BeginKeyboard() error
	BeginMouse() error
	IsConnected() bool

	// Move issues a relative pointer move. The host clamps at screen edges.
	Move(dx, dy int) error
	Click(b MouseButton) error
	Press(b MouseButton) error
	Release(b MouseButton) error

	KeyPress(k Key) error
	KeyReleaseAll() error
}

// Link carries encoded input reports to the host.
type Link interface {
	Start() error
	Connected() bool
	WriteReport(report []byte) error
	Close() error
}

// LinkKind names a Link implementation.
type LinkKind string

const (
	LinkBluetooth LinkKind = "bluetooth"
	LinkLog       LinkKind = "log"
)

func ParseLink(s string) (LinkKind, error) {
	switch k := LinkKind(strings.ToLower(strings.TrimSpace(s))); k {
	case LinkBluetooth, LinkLog:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLink, s)
}
