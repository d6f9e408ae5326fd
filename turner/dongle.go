// Package turner is the button engine of the page turner: it samples three
// debounced buttons and turns each press into mouse or keyboard input
// according to the current mode.
package turner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mastercactapus/pageturner/hid"
	"github.com/mastercactapus/pageturner/pins"
	log "github.com/sirupsen/logrus"
)

var ErrMissingDevice = errors.New("missing device")

type Options struct {
	Settings Settings
	Pins     pins.IO
	HID      hid.Device

	// Clock defaults to the system clock.
	Clock   Clock
	// Console receives the mode name on every mode change. May be nil.
	Console io.Writer
	// Log defaults to the standard logrus logger.
	Log     log.FieldLogger
}

// Dongle owns the button registry and the current mode. It is not safe for
// concurrent use; Poll and Run must be called from one goroutine.
type Dongle struct {
	settings Settings
	pins     pins.IO
	hid      hid.Device
	clock    Clock
	console  io.Writer
	log      log.FieldLogger

	buttons [ButtonCount]Button
	mode    Mode
}

func New(o Options) (*Dongle, error) {
	if err := o.Settings.Validate(); err != nil {
		return nil, err
	}
	if o.Pins == nil {
		return nil, fmt.Errorf("%w: pins", ErrMissingDevice)
	}
	if o.HID == nil {
		return nil, fmt.Errorf("%w: hid", ErrMissingDevice)
	}
	if o.Clock == nil {
		o.Clock = NewSystemClock()
	}
	if o.Log == nil {
		o.Log = log.StandardLogger()
	}

	d := &Dongle{
		settings: o.Settings,
		pins:     o.Pins,
		hid:      o.HID,
		clock:    o.Clock,
		console:  o.Console,
		log:      o.Log,
		mode:     Mode1,
	}
	d.buttons[ModeButton] = newButton(o.Settings.Pins.Mode, actionTable[ModeButton])
	d.buttons[LeftButton] = newButton(o.Settings.Pins.Left, actionTable[LeftButton])
	d.buttons[RightButton] = newButton(o.Settings.Pins.Right, actionTable[RightButton])
	return d, nil
}

// Setup starts both HID roles, configures every button pin as a pulled-up
// input and then drives the LED low. All pins are configured before the
// first write.
func (d *Dongle) Setup() error {
	if err := d.hid.BeginKeyboard(); err != nil {
		return fmt.Errorf("begin keyboard: %w", err)
	}
	if err := d.hid.BeginMouse(); err != nil {
		return fmt.Errorf("begin mouse: %w", err)
	}

	for id := ModeButton; id < ButtonCount; id++ {
		b := &d.buttons[id]
		if err := d.pins.ConfigureInputPullup(b.pin); err != nil {
			return fmt.Errorf("configure %s button (Pin%d): %w", id, b.pin, err)
		}
		d.log.WithFields(log.Fields{
			"ID":  id.String(),
			"Pin": b.pin,
		}).Debugln("button configured")
	}

	led := d.settings.Pins.LED
	if err := d.pins.ConfigureOutput(led); err != nil {
		return fmt.Errorf("configure led (Pin%d): %w", led, err)
	}
	if err := d.pins.WriteDigital(led, pins.Low); err != nil {
		return fmt.Errorf("write led (Pin%d): %w", led, err)
	}
	return nil
}

// Poll runs one iteration of the main loop. Nothing is sampled while the host
// is disconnected, so presses made in that time are never seen.
func (d *Dongle) Poll() error {
	if !d.hid.IsConnected() {
		return nil
	}

	for id := ModeButton; id < ButtonCount; id++ {
		b := &d.buttons[id]
		reading, err := d.pins.ReadDigital(b.pin)
		if err != nil {
			return fmt.Errorf("read %s button (Pin%d): %w", id, b.pin, err)
		}
		b.update(reading, d.clock.Now(), d.settings.Debounce)
		if b.pressed {
			b.pressed = false
			d.dispatch(id)
		}
	}
	return nil
}

func (d *Dongle) dispatch(id ButtonID) {
	b := &d.buttons[id]
	lg := d.log.WithFields(log.Fields{
		"ID":   id.String(),
		"Pin":  b.pin,
		"Mode": d.mode.String(),
	})
	lg.Infoln("button pressed")

	if err := b.actions[d.mode](d); err != nil {
		lg.WithError(err).Warnln("action failed")
	}
}

// Run polls until ctx is done or a pin read fails.
func (d *Dongle) Run(ctx context.Context) error {
	t := time.NewTicker(d.settings.PollInterval)
	defer t.Stop()

	connected := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}

		if c := d.hid.IsConnected(); c != connected {
			connected = c
			if c {
				d.log.Infoln("host connected")
			} else {
				d.log.Warnln("host disconnected")
			}
		}

		if err := d.Poll(); err != nil {
			return err
		}
	}
}

func (d *Dongle) Mode() Mode { return d.mode }

func (d *Dongle) Button(id ButtonID) ButtonState {
	return d.buttons[id].snapshot()
}
