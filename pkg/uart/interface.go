package uart

// Parity is the serial frame parity setting.
type Parity uint8

const (
	// ParityNone disables parity checking, the course default.
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// Mode is the serial framing configuration.
type Mode struct {
	BaudRate int
	DataBits int
	Parity   Parity
	StopBits int
}

// Port is the hardware surface the channel drives: one data register in
// each direction plus the interrupt-enable bits. The channel performs all
// data-register access from its two interrupt handlers; a port must never
// invoke those handlers synchronously from within one of these calls.
type Port interface {
	// Configure applies the framing mode to the hardware.
	Configure(mode Mode) error
	// ReadData reads the receive data register. Hardware clears the
	// receive-complete condition as a side effect, so the channel reads it
	// exactly once per event.
	ReadData() byte
	// WriteData writes the transmit data register, which also clears the
	// transmit-empty condition.
	WriteData(b byte)
	// SetRxInterrupt enables or disables receive-complete delivery.
	SetRxInterrupt(enabled bool)
	// SetTxEmptyInterrupt enables or disables transmit-empty delivery.
	// The condition is level-triggered: while enabled with an empty
	// transmit buffer it re-fires continuously, so the channel disables it
	// when there is nothing left to send.
	SetTxEmptyInterrupt(enabled bool)
	// EnableInterrupts starts interrupt delivery, the analog of the
	// global interrupt enable. Called last during channel init.
	EnableInterrupts()
}

// Ensure MockPort implements Port.
var _ Port = (*MockPort)(nil)

// Ensure HostPort implements Port.
var _ Port = (*HostPort)(nil)
