package turner

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Mode selects which action the left and right buttons perform.
type Mode int

const (
	Mode1 Mode = iota
	Mode2
	Mode3
	ModeCount
)

// Next is the mode the mode button advances to.
func (m Mode) Next() Mode {
	return (m + 1) % ModeCount
}

func (m Mode) String() string {
	if m < 0 || m >= ModeCount {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return fmt.Sprintf("MODE%d", int(m)+1)
}

// enterMode announces m on the console, makes it current and blinks the LED
// once per mode ordinal plus one.
func (d *Dongle) enterMode(m Mode) error {
	if d.console != nil {
		fmt.Fprintln(d.console, m.String())
	}
	d.log.WithFields(log.Fields{
		"From": d.mode.String(),
		"To":   m.String(),
	}).Infoln("mode changed")
	d.mode = m
	return d.blink(int(m)+1, modeBlink)
}
