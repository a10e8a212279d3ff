package uart

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.bug.st/serial"
)

// PortInfo describes an available host serial port.
type PortInfo struct {
	Name        string
	Description string
}

// Ports returns a list of available host serial ports.
func Ports() ([]PortInfo, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]PortInfo, 0, len(names))
	for _, name := range names {
		result = append(result, PortInfo{
			Name:        name,
			Description: name,
		})
	}
	return result, nil
}

// HostPort adapts a host serial device to the Port interface so the same
// channel logic that runs against MCU registers runs against a real line.
// A reader goroutine plays the receive-complete interrupt source: it loads
// each incoming byte into the data register and fires RxHandler. A drain
// goroutine plays the level-triggered transmit-empty source: while the
// interrupt is armed it keeps firing TxHandler.
type HostPort struct {
	// RxHandler receives receive-complete events, normally the channel's
	// HandleRxComplete. Set before Init/EnableInterrupts.
	RxHandler func()
	// TxHandler receives transmit-empty events, normally the channel's
	// HandleTxEmpty.
	TxHandler func()

	name string

	mu        sync.Mutex
	conn      serial.Port
	data      byte
	rxEnabled bool
	txEnabled bool
	enabled   bool
	draining  bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewHostPort creates a port for the named host serial device. Nothing is
// opened until Configure.
func NewHostPort(name string) *HostPort {
	ctx, cancel := context.WithCancel(context.Background())
	return &HostPort{
		name:   name,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Configure opens the device with the given framing mode.
func (p *HostPort) Configure(mode Mode) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		return fmt.Errorf("port %s already open", p.name)
	}

	hm, err := hostMode(mode)
	if err != nil {
		return err
	}

	conn, err := serial.Open(p.name, hm)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", p.name, err)
	}
	p.conn = conn
	return nil
}

// ReadData returns the receive data register, the last byte the reader
// goroutine loaded.
func (p *HostPort) ReadData() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// WriteData writes one byte to the device.
func (p *HostPort) WriteData(b byte) {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()

	if conn == nil {
		return
	}
	if _, err := conn.Write([]byte{b}); err != nil {
		log.Printf("Error writing to serial port %s: %v", p.name, err)
	}
}

// SetRxInterrupt enables or disables receive-complete delivery.
func (p *HostPort) SetRxInterrupt(enabled bool) {
	p.mu.Lock()
	p.rxEnabled = enabled
	p.mu.Unlock()
}

// SetTxEmptyInterrupt enables or disables transmit-empty delivery. Arming
// it starts a drain goroutine that fires TxHandler until the channel
// disarms the interrupt again.
func (p *HostPort) SetTxEmptyInterrupt(enabled bool) {
	p.mu.Lock()
	p.txEnabled = enabled
	start := enabled && p.enabled && !p.draining && p.TxHandler != nil
	if start {
		p.draining = true
	}
	p.mu.Unlock()

	if start {
		go p.drainLoop()
	}
}

// EnableInterrupts starts interrupt delivery: the reader goroutine comes
// up, and an already-armed transmit-empty interrupt starts draining.
func (p *HostPort) EnableInterrupts() {
	p.mu.Lock()
	if p.enabled || p.conn == nil {
		p.mu.Unlock()
		return
	}
	p.enabled = true
	startDrain := p.txEnabled && !p.draining && p.TxHandler != nil
	if startDrain {
		p.draining = true
	}
	p.mu.Unlock()

	go p.readLoop()
	if startDrain {
		go p.drainLoop()
	}
}

// Close stops the goroutines and closes the device.
func (p *HostPort) Close() error {
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.enabled = false
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close serial port %s: %w", p.name, err)
		}
		p.conn = nil
	}
	return nil
}

// readLoop is the receive-complete interrupt source.
func (p *HostPort) readLoop() {
	var buf [1]byte
	for {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		p.mu.Lock()
		conn := p.conn
		p.mu.Unlock()
		if conn == nil {
			return
		}

		n, err := conn.Read(buf[:])
		if err != nil {
			select {
			case <-p.ctx.Done():
			default:
				log.Printf("Error reading from serial port %s: %v", p.name, err)
			}
			return
		}
		if n == 0 {
			continue
		}

		// Load the data register, then fire. A byte arriving before the
		// handler reads the register overwrites it, the same overrun a
		// real receiver has.
		p.mu.Lock()
		p.data = buf[0]
		deliver := p.enabled && p.rxEnabled && p.RxHandler != nil
		handler := p.RxHandler
		p.mu.Unlock()

		if deliver {
			handler()
		}
	}
}

// drainLoop is the transmit-empty interrupt source: level-triggered, so it
// keeps firing while the interrupt stays armed.
func (p *HostPort) drainLoop() {
	for {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		p.mu.Lock()
		armed := p.enabled && p.txEnabled
		handler := p.TxHandler
		if !armed || handler == nil {
			p.draining = false
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		handler()
	}
}

// hostMode translates a Mode to the host serial library's configuration.
func hostMode(mode Mode) (*serial.Mode, error) {
	var parity serial.Parity
	switch mode.Parity {
	case ParityNone:
		parity = serial.NoParity
	case ParityEven:
		parity = serial.EvenParity
	case ParityOdd:
		parity = serial.OddParity
	default:
		return nil, fmt.Errorf("unsupported parity setting: %d", mode.Parity)
	}

	var stopBits serial.StopBits
	switch mode.StopBits {
	case 0, 1:
		stopBits = serial.OneStopBit
	case 2:
		stopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("unsupported stop bit count: %d", mode.StopBits)
	}

	dataBits := mode.DataBits
	if dataBits == 0 {
		dataBits = 8
	}

	return &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: dataBits,
		Parity:   parity,
		StopBits: stopBits,
	}, nil
}
