package step

// Clock is the logical clock that numbers steps. Step numbers come from
// Next, never from wall time, so two runs of the same input number their
// steps identically. It belongs to one Recorder and is not safe for
// concurrent use.
type Clock struct {
	seq int
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next step number.
func (c *Clock) Next() int {
	c.seq++
	return c.seq
}

// Current returns the last issued number without advancing.
func (c *Clock) Current() int {
	return c.seq
}
