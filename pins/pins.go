// Package pins provides digital GPIO access for the button and LED wiring.
//
// Pin numbers are interpreted by the backend: the raspi backend uses physical
// header pins, the periph backend uses BCM GPIO numbers and the terminal
// backend uses them only as identifiers.
package pins

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a digital pin level.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

func (l Level) String() string {
	if l == Low {
		return "LOW"
	}
	return "HIGH"
}

// IO is the GPIO capability used by the button engine.
type IO interface {
	ConfigureInputPullup(pin int) error
	ConfigureOutput(pin int) error
	ReadDigital(pin int) (Level, error)
	WriteDigital(pin int, l Level) error
	Close() error
}

var (
	ErrUnknownBackend   = errors.New("unknown gpio backend")
	ErrAdaptorConnected = errors.New("adaptor already connected")
)

// Backend names a GPIO implementation.
type Backend string

const (
	BackendRaspi    Backend = "raspi"
	BackendPeriph   Backend = "periph"
	BackendTerminal Backend = "terminal"
)

// ParseBackend validates a backend name from config or flags.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendRaspi, BackendPeriph, BackendTerminal:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}
