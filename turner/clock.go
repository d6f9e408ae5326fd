package turner

import "time"

// Clock is the monotonic time source and blocking delay used by the engine.
type Clock interface {
	// Now is the time elapsed since the clock started.
	Now() time.Duration
	Sleep(d time.Duration)
}

type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration    { return time.Since(c.start) }
func (c *SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
