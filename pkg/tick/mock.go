package tick

import "sync"

// MockTimer simulates the 8-bit timer for tests and for host-side use
// where a wall-clock ticker plays the hardware. It records register
// writes and delivers overflows to OverflowHandler the way the hardware
// delivers them: only while the clock runs and the overflow interrupt is
// enabled.
type MockTimer struct {
	// OverflowHandler receives overflow events, normally the scheduler's
	// HandleOverflow. Set before firing.
	OverflowHandler func()

	mu              sync.Mutex
	start           uint8
	clock           uint8
	overflowEnabled bool
	reloads         int
	fired           int
}

// NewMockTimer creates a stopped mock timer.
func NewMockTimer() *MockTimer {
	return &MockTimer{}
}

// Reload records the counter start value.
func (m *MockTimer) Reload(start uint8) {
	m.mu.Lock()
	m.start = start
	m.reloads++
	m.mu.Unlock()
}

// SetClock records the clock-select code.
func (m *MockTimer) SetClock(cs uint8) {
	m.mu.Lock()
	m.clock = cs
	m.mu.Unlock()
}

// SetOverflowInterrupt records the overflow interrupt enable.
func (m *MockTimer) SetOverflowInterrupt(enabled bool) {
	m.mu.Lock()
	m.overflowEnabled = enabled
	m.mu.Unlock()
}

// Fire simulates one timer overflow. The handler runs only if the clock
// is running and the overflow interrupt is enabled, mirroring hardware
// gating. It reports whether the handler was invoked.
func (m *MockTimer) Fire() bool {
	m.mu.Lock()
	deliver := m.clock != ClockStop && m.overflowEnabled && m.OverflowHandler != nil
	if deliver {
		m.fired++
	}
	handler := m.OverflowHandler
	m.mu.Unlock()

	if deliver {
		handler()
	}
	return deliver
}

// FireN simulates n consecutive overflows.
func (m *MockTimer) FireN(n int) {
	for i := 0; i < n; i++ {
		m.Fire()
	}
}

// Start returns the last reloaded counter start value.
func (m *MockTimer) Start() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start
}

// Clock returns the current clock-select code.
func (m *MockTimer) Clock() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock
}

// Running reports whether the clock select is non-stop.
func (m *MockTimer) Running() bool {
	return m.Clock() != ClockStop
}

// OverflowEnabled reports whether overflow delivery is enabled.
func (m *MockTimer) OverflowEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overflowEnabled
}

// Reloads returns how many times the start value was written.
func (m *MockTimer) Reloads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloads
}
