package turner

// Axis is a pointer axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Direction is the sign of a move: Backward is left or up.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d *Dongle) extent(a Axis) int {
	if a == AxisX {
		return d.settings.Screen.Width
	}
	return d.settings.Screen.Height
}

func (d *Dongle) move(a Axis, delta int) error {
	if a == AxisX {
		return d.hid.Move(delta, 0)
	}
	return d.hid.Move(0, delta)
}

// travel covers distance in whole steps followed by one move of the
// remainder, which is sent even when it is zero. Every move is followed by the
// step delay.
func (d *Dongle) travel(a Axis, dir Direction, distance, step int) error {
	for i := 0; i < distance/step; i++ {
		if err := d.move(a, int(dir)*step); err != nil {
			return err
		}
		d.clock.Sleep(d.settings.StepDelay)
	}
	if err := d.move(a, int(dir)*(distance%step)); err != nil {
		return err
	}
	d.clock.Sleep(d.settings.StepDelay)
	return nil
}

// moveToExtreme travels a full screen extent so the host clamps the pointer
// at the edge, wherever it started.
func (d *Dongle) moveToExtreme(a Axis, dir Direction, step int) error {
	return d.travel(a, dir, d.extent(a), step)
}

// moveToMiddle travels half an extent forward; it lands in the middle only
// when the pointer is already at the backward edge of a.
func (d *Dongle) moveToMiddle(a Axis, step int) error {
	return d.travel(a, Forward, d.extent(a)/2, step)
}
