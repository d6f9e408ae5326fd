package turner

import (
	"time"

	"github.com/mastercactapus/pageturner/hid"
	"github.com/mastercactapus/pageturner/pins"
)

// Action is what one button does in one mode. It runs to completion on the
// poll goroutine.
type Action func(d *Dongle) error

var actionTable = [ButtonCount][ModeCount]Action{
	ModeButton: {
		Mode1: enterMode2,
		Mode2: enterMode3,
		Mode3: enterMode1,
	},
	LeftButton: {
		Mode1: clickLeftMiddle,
		Mode2: tapLeftArrow,
		Mode3: dragLeftToRight,
	},
	RightButton: {
		Mode1: clickRightMiddle,
		Mode2: tapRightArrow,
		Mode3: dragRightToLeft,
	},
}

func (d *Dongle) blink(times int, period time.Duration) error {
	led := d.settings.Pins.LED
	for i := 0; i < times; i++ {
		if err := d.pins.WriteDigital(led, pins.High); err != nil {
			return err
		}
		d.clock.Sleep(period)
		if err := d.pins.WriteDigital(led, pins.Low); err != nil {
			return err
		}
		d.clock.Sleep(period)
	}
	return nil
}

func enterMode1(d *Dongle) error { return d.enterMode(Mode1) }
func enterMode2(d *Dongle) error { return d.enterMode(Mode2) }
func enterMode3(d *Dongle) error { return d.enterMode(Mode3) }

// pointAtEdge parks the pointer half way down the given side of the screen.
func (d *Dongle) pointAtEdge(side Direction) error {
	step := d.settings.MaxStep
	if err := d.moveToExtreme(AxisX, side, step); err != nil {
		return err
	}
	if err := d.moveToExtreme(AxisY, Backward, step); err != nil {
		return err
	}
	return d.moveToMiddle(AxisY, step)
}

func (d *Dongle) clickAtEdge(side Direction) error {
	if err := d.pointAtEdge(side); err != nil {
		return err
	}
	if err := d.hid.Click(hid.MouseLeft); err != nil {
		return err
	}
	return d.blink(1, actionBlink)
}

// dragFromEdge holds the left button and sweeps slowly to the opposite edge.
func (d *Dongle) dragFromEdge(side Direction) error {
	if err := d.pointAtEdge(side); err != nil {
		return err
	}
	if err := d.hid.Press(hid.MouseLeft); err != nil {
		return err
	}
	d.clock.Sleep(d.settings.StepDelay)
	if err := d.moveToExtreme(AxisX, -side, d.settings.MinStep); err != nil {
		_ = d.hid.Release(hid.MouseLeft)
		return err
	}
	if err := d.hid.Release(hid.MouseLeft); err != nil {
		return err
	}
	return d.blink(1, actionBlink)
}

func (d *Dongle) tapKey(k hid.Key) error {
	if err := d.hid.KeyPress(k); err != nil {
		return err
	}
	if err := d.hid.KeyReleaseAll(); err != nil {
		return err
	}
	return d.blink(1, actionBlink)
}

func clickLeftMiddle(d *Dongle) error  { return d.clickAtEdge(Backward) }
func clickRightMiddle(d *Dongle) error { return d.clickAtEdge(Forward) }
func tapLeftArrow(d *Dongle) error     { return d.tapKey(hid.KeyLeftArrow) }
func tapRightArrow(d *Dongle) error    { return d.tapKey(hid.KeyRightArrow) }
func dragLeftToRight(d *Dongle) error  { return d.dragFromEdge(Backward) }
func dragRightToLeft(d *Dongle) error  { return d.dragFromEdge(Forward) }
