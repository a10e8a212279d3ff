package tick

import "github.com/chewxy/math32"

// Clock-select codes for the 8-bit timer (Timer2 on the ATmega128).
const (
	ClockStop    uint8 = 0x00 // timer stopped
	Prescale1    uint8 = 0x01 // no prescaling
	Prescale8    uint8 = 0x02
	Prescale32   uint8 = 0x03
	Prescale64   uint8 = 0x04 // default, 250kHz at 16MHz
	Prescale128  uint8 = 0x05
	Prescale256  uint8 = 0x06
	Prescale1024 uint8 = 0x07
)

// DefaultCPUHz is the course board's crystal frequency.
const DefaultCPUHz uint32 = 16_000_000

// classicStart is the traditional reload value for a "1ms" tick with
// prescaler 64: (256-26)/250kHz = 0.92ms, about 8% fast. The exact value
// would be 6; the course keeps 26 and documents the approximation.
const classicStart uint8 = 26

// divisors maps clock-select codes to prescaler divisors.
var divisors = map[uint8]uint32{
	Prescale1:    1,
	Prescale8:    8,
	Prescale32:   32,
	Prescale64:   64,
	Prescale128:  128,
	Prescale256:  256,
	Prescale1024: 1024,
}

// Params selects the timer reload value and prescaler that together set
// the tick period.
type Params struct {
	Start uint8 // counter start value reloaded on every overflow
	Clock uint8 // clock-select code while running
}

// ClassicTiming returns the course's traditional 1ms tick parameters,
// including their ~8% timing error.
func ClassicTiming() Params {
	return Params{Start: classicStart, Clock: Prescale64}
}

// ExactTiming searches the prescaler table for the reload value whose
// tick period is closest to 1ms at the given CPU frequency.
func ExactTiming(cpuHz uint32) Params {
	if cpuHz == 0 {
		cpuHz = DefaultCPUHz
	}

	best := ClassicTiming()
	bestErr := best.TickError(cpuHz)

	for cs := Prescale1; cs <= Prescale1024; cs++ {
		counts := cpuHz / divisors[cs] / 1000 // counts per 1ms
		if counts < 1 || counts > 256 {
			continue
		}
		p := Params{Start: uint8(256 - counts), Clock: cs}
		if e := p.TickError(cpuHz); e < bestErr {
			best = p
			bestErr = e
		}
	}

	return best
}

// TickPeriod returns the tick period in seconds at the given CPU frequency.
func (p Params) TickPeriod(cpuHz uint32) float32 {
	if cpuHz == 0 {
		cpuHz = DefaultCPUHz
	}
	counts := float32(256 - uint32(p.Start))
	return counts * float32(divisors[p.Clock]) / float32(cpuHz)
}

// TickError returns the relative deviation of the tick period from 1ms.
func (p Params) TickError(cpuHz uint32) float32 {
	return math32.Abs(p.TickPeriod(cpuHz)-1e-3) / 1e-3
}
