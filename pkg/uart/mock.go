package uart

import "sync"

// MockPort simulates the serial hardware for tests and host-side use: a
// receive data register that tests load, a transmit data register that
// logs every byte written, and the interrupt-enable bits. Events reach the
// channel through RxHandler and TxHandler the way hardware delivers them:
// only while the matching enable bit and the global enable are set.
type MockPort struct {
	// RxHandler receives receive-complete events, normally the channel's
	// HandleRxComplete.
	RxHandler func()
	// TxHandler receives transmit-empty events, normally the channel's
	// HandleTxEmpty.
	TxHandler func()

	mu         sync.Mutex
	mode       Mode
	configured bool
	data       byte
	sent       []byte
	rxEnabled  bool
	txEnabled  bool
	enabled    bool
}

// NewMockPort creates an unconfigured mock port.
func NewMockPort() *MockPort {
	return &MockPort{}
}

// Configure records the framing mode.
func (p *MockPort) Configure(mode Mode) error {
	p.mu.Lock()
	p.mode = mode
	p.configured = true
	p.mu.Unlock()
	return nil
}

// ReadData returns the receive data register.
func (p *MockPort) ReadData() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// WriteData logs a byte written to the transmit data register.
func (p *MockPort) WriteData(b byte) {
	p.mu.Lock()
	p.sent = append(p.sent, b)
	p.mu.Unlock()
}

// SetRxInterrupt records the receive-complete enable bit.
func (p *MockPort) SetRxInterrupt(enabled bool) {
	p.mu.Lock()
	p.rxEnabled = enabled
	p.mu.Unlock()
}

// SetTxEmptyInterrupt records the transmit-empty enable bit.
func (p *MockPort) SetTxEmptyInterrupt(enabled bool) {
	p.mu.Lock()
	p.txEnabled = enabled
	p.mu.Unlock()
}

// EnableInterrupts sets the global enable.
func (p *MockPort) EnableInterrupts() {
	p.mu.Lock()
	p.enabled = true
	p.mu.Unlock()
}

// FireRx loads the receive data register and simulates one
// receive-complete interrupt. It reports whether the handler ran.
func (p *MockPort) FireRx(b byte) bool {
	p.mu.Lock()
	p.data = b
	deliver := p.enabled && p.rxEnabled && p.RxHandler != nil
	handler := p.RxHandler
	p.mu.Unlock()

	if deliver {
		handler()
	}
	return deliver
}

// FireTxEmpty simulates one transmit-empty interrupt. It reports whether
// the handler ran.
func (p *MockPort) FireTxEmpty() bool {
	p.mu.Lock()
	deliver := p.enabled && p.txEnabled && p.TxHandler != nil
	handler := p.TxHandler
	p.mu.Unlock()

	if deliver {
		handler()
	}
	return deliver
}

// DrainTx fires transmit-empty interrupts until the channel disarms the
// interrupt, emptying the transmit buffer the way free-running hardware
// would.
func (p *MockPort) DrainTx() {
	for p.FireTxEmpty() {
	}
}

// Sent returns a copy of every byte written to the transmit register.
func (p *MockPort) Sent() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]byte, len(p.sent))
	copy(out, p.sent)
	return out
}

// TakeSent returns the transmitted bytes and clears the log.
func (p *MockPort) TakeSent() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.sent
	p.sent = nil
	return out
}

// ConfiguredMode returns the last mode passed to Configure.
func (p *MockPort) ConfiguredMode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// RxArmed reports the receive-complete enable bit.
func (p *MockPort) RxArmed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rxEnabled
}

// TxEmptyArmed reports the transmit-empty enable bit.
func (p *MockPort) TxEmptyArmed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.txEnabled
}

// InterruptsEnabled reports the global enable.
func (p *MockPort) InterruptsEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}
