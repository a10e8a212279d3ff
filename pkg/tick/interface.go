package tick

// TimerPort is the hardware surface the scheduler drives: an 8-bit
// free-running counter with a reloadable start value and a clock-select
// register. A port must never invoke the scheduler's overflow handler
// synchronously from within one of these calls.
type TimerPort interface {
	// Reload writes the counter start value for the next period.
	Reload(start uint8)
	// SetClock writes the clock-select code. ClockStop pauses counting.
	SetClock(cs uint8)
	// SetOverflowInterrupt enables or disables overflow delivery.
	SetOverflowInterrupt(enabled bool)
}

// Ensure MockTimer implements TimerPort.
var _ TimerPort = (*MockTimer)(nil)
