// Package timer provides the delay and sound timers of the
// CHIP-8. Both are 8-bit counters that are set to an absolute
// value by the program and count down towards zero at
// types.TimerFrequency, independently of the instruction rate.
package timer

// Controller holds the delay and sound timers.
type Controller struct {
	delay uint8
	sound uint8
}

// NewController returns a new timer controller with both
// timers stopped.
func NewController() *Controller {
	return &Controller{}
}

// Tick decrements both timers by 1, stopping at 0. It should be
// called at types.TimerFrequency.
func (c *Controller) Tick() {
	if c.delay > 0 {
		c.delay--
	}
	if c.sound > 0 {
		c.sound--
	}
}

// Delay returns the current value of the delay timer.
func (c *Controller) Delay() uint8 {
	return c.delay
}

// SetDelay sets the delay timer.
func (c *Controller) SetDelay(v uint8) {
	c.delay = v
}

// Sound returns the current value of the sound timer.
func (c *Controller) Sound() uint8 {
	return c.sound
}

// SetSound sets the sound timer.
func (c *Controller) SetSound(v uint8) {
	c.sound = v
}

// Beeping reports whether the sound timer is active. No audio
// is produced, the state is only forwarded to display drivers.
func (c *Controller) Beeping() bool {
	return c.sound > 0
}

// Reset stops both timers.
func (c *Controller) Reset() {
	c.delay, c.sound = 0, 0
}
