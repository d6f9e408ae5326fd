package pins

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	host "periph.io/x/host/v3"
)

// Periph drives BCM GPIO lines through periph.io host drivers.
type Periph struct {
	lines map[int]gpio.PinIO
}

func NewPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	return &Periph{lines: make(map[int]gpio.PinIO)}, nil
}

func (p *Periph) line(pin int) (gpio.PinIO, error) {
	if l, ok := p.lines[pin]; ok {
		return l, nil
	}
	name := fmt.Sprintf("GPIO%d", pin)
	l := gpioreg.ByName(name)
	if l == nil {
		return nil, fmt.Errorf("%s: no such gpio line", name)
	}
	p.lines[pin] = l
	return l, nil
}

func (p *Periph) ConfigureInputPullup(pin int) error {
	l, err := p.line(pin)
	if err != nil {
		return err
	}
	return l.In(gpio.PullUp, gpio.NoEdge)
}

func (p *Periph) ConfigureOutput(pin int) error {
	l, err := p.line(pin)
	if err != nil {
		return err
	}
	return l.Out(gpio.Low)
}

func (p *Periph) ReadDigital(pin int) (Level, error) {
	l, err := p.line(pin)
	if err != nil {
		return High, err
	}
	if l.Read() == gpio.Low {
		return Low, nil
	}
	return High, nil
}

func (p *Periph) WriteDigital(pin int, lv Level) error {
	l, err := p.line(pin)
	if err != nil {
		return err
	}
	return l.Out(lv == High)
}

// Close halts every line that was touched.
func (p *Periph) Close() error {
	for _, l := range p.lines {
		_ = l.Halt()
	}
	p.lines = make(map[int]gpio.PinIO)
	return nil
}
