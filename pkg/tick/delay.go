package tick

// Delay is a non-blocking delay keyed to the scheduler clock. Elapsed is
// polled from the main loop; the first call arms the delay, subsequent
// calls report whether the interval has passed and re-arm on completion.
type Delay struct {
	s      *Scheduler
	start  uint32
	active bool
}

// NewDelay returns a delay tracker bound to this scheduler's clock.
func (s *Scheduler) NewDelay() *Delay {
	return &Delay{s: s}
}

// Elapsed polls the delay. The first call starts the interval and returns
// false; once ms milliseconds have passed it returns true and resets, so
// the next call starts a fresh interval.
func (d *Delay) Elapsed(ms uint32) bool {
	if !d.active {
		d.start = d.s.ElapsedMillis()
		d.active = true
		return false
	}
	if d.s.SinceMillis(d.start) >= ms {
		d.active = false
		return true
	}
	return false
}
