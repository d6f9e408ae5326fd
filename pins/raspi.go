package pins

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gobot.io/x/gobot/v2/platforms/adaptors"
	"gobot.io/x/gobot/v2/platforms/raspi"
)

// Raspi drives header pins through the gobot Raspberry Pi adaptor.
//
// Pull-ups have to be known before the adaptor connects, so the adaptor is
// created on the first read or write after all pins were configured.
type Raspi struct {
	adapter *raspi.Adaptor
	pullups []string
}

func NewRaspi() *Raspi {
	return &Raspi{}
}

func (r *Raspi) conn() (*raspi.Adaptor, error) {
	if r.adapter != nil {
		return r.adapter, nil
	}
	a := raspi.NewAdaptor(r.options()...)
	if err := a.Connect(); err != nil {
		return nil, fmt.Errorf("connect raspi adaptor: %w", err)
	}
	log.WithFields(log.Fields{
		"PullUps": r.pullups,
	}).Debugln("raspi adaptor connected")
	r.adapter = a
	return a, nil
}

func (r *Raspi) options() []interface{} {
	if len(r.pullups) == 0 {
		return nil
	}
	return []interface{}{adaptors.WithGpiosPullUp(r.pullups[0], r.pullups[1:]...)}
}

// ConfigureInputPullup must be called for every input before the first read
// or write, since the adaptor cannot add pull-ups once connected.
func (r *Raspi) ConfigureInputPullup(pin int) error {
	if r.adapter != nil {
		return fmt.Errorf("configure pin %d: %w", pin, ErrAdaptorConnected)
	}
	r.pullups = append(r.pullups, strconv.Itoa(pin))
	return nil
}

// ConfigureOutput is a no-op; the adaptor switches a pin to output on its
// first write.
func (r *Raspi) ConfigureOutput(pin int) error {
	return nil
}

func (r *Raspi) ReadDigital(pin int) (Level, error) {
	a, err := r.conn()
	if err != nil {
		return High, err
	}
	val, err := a.DigitalRead(strconv.Itoa(pin))
	if err != nil {
		return High, err
	}
	if val == 0 {
		return Low, nil
	}
	return High, nil
}

func (r *Raspi) WriteDigital(pin int, l Level) error {
	a, err := r.conn()
	if err != nil {
		return err
	}
	return a.DigitalWrite(strconv.Itoa(pin), byte(l))
}

func (r *Raspi) Close() error {
	if r.adapter == nil {
		return nil
	}
	err := r.adapter.Finalize()
	r.adapter = nil
	return err
}
