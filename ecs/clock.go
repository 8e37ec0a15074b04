package ecs

// Clock tracks two timelines: scaled time, which slow-motion affects, and
// unscaled time, which it does not.
type Clock struct {
	scale        float64
	dt           float64
	unscaledDt   float64
	time         float64
	unscaledTime float64
	frame        uint64
}

func newClock() Clock {
	return Clock{scale: 1}
}

func (c *Clock) advance(realDt float64) {
	if realDt < 0 {
		realDt = 0
	}
	c.unscaledDt = realDt
	c.dt = realDt * c.scale
	c.unscaledTime += c.unscaledDt
	c.time += c.dt
	c.frame++
}

// DT is the scaled delta for the current frame.
func (c *Clock) DT() float64 { return c.dt }

// UnscaledDT is the real delta for the current frame.
func (c *Clock) UnscaledDT() float64 { return c.unscaledDt }

func (c *Clock) Time() float64 { return c.time }

func (c *Clock) UnscaledTime() float64 { return c.unscaledTime }

func (c *Clock) Frame() uint64 { return c.frame }

func (c *Clock) TimeScale() float64 { return c.scale }

// SetTimeScale changes the scale applied from the next frame on.
func (c *Clock) SetTimeScale(s float64) {
	if s < 0 {
		s = 0
	}
	c.scale = s
}
