package tick

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassicTiming(t *testing.T) {
	p := ClassicTiming()
	assert.Equal(t, uint8(26), p.Start)
	assert.Equal(t, Prescale64, p.Clock)

	// (256-26) * 64 / 16MHz = 0.92ms, the documented ~8% error.
	assert.InDelta(t, 0.00092, float64(p.TickPeriod(DefaultCPUHz)), 1e-7)
	assert.InDelta(t, 0.08, float64(p.TickError(DefaultCPUHz)), 1e-3)
}

func TestExactTiming(t *testing.T) {
	tests := []struct {
		name      string
		cpuHz     uint32
		wantStart uint8
		wantClock uint8
	}{
		{
			name:      "16MHz course board",
			cpuHz:     16_000_000,
			wantStart: 6, // 250 counts with prescaler 64
			wantClock: Prescale64,
		},
		{
			name:      "8MHz",
			cpuHz:     8_000_000,
			wantStart: 6, // 250 counts with prescaler 32
			wantClock: Prescale32,
		},
		{
			name:      "1MHz",
			cpuHz:     1_000_000,
			wantStart: 131, // 125 counts with prescaler 8
			wantClock: Prescale8,
		},
		{
			name:      "zero falls back to the default clock",
			cpuHz:     0,
			wantStart: 6,
			wantClock: Prescale64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ExactTiming(tt.cpuHz)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantClock, p.Clock)

			cpuHz := tt.cpuHz
			if cpuHz == 0 {
				cpuHz = DefaultCPUHz
			}
			assert.Less(t, float64(p.TickError(cpuHz)), 1e-6, "exact timing should hit 1ms")
		})
	}
}

func TestExactTiming_BeatsClassic(t *testing.T) {
	classic := ClassicTiming()
	exact := ExactTiming(DefaultCPUHz)
	assert.Less(t, float64(exact.TickError(DefaultCPUHz)), float64(classic.TickError(DefaultCPUHz)))
}
