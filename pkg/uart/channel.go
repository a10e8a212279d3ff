package uart

import (
	"fmt"
	"runtime"
	"sync"
)

const (
	// DefaultBaudRate is the course default line speed.
	DefaultBaudRate = 9600
	// DefaultBufferSize is the default capacity of each ring buffer.
	DefaultBufferSize = 64
)

// Channel decouples the main program from byte-at-a-time serial hardware:
// a receive and a transmit ring buffer, filled and drained exclusively by
// the two interrupt handlers, which the port's interrupt sources call.
// Application code only ever touches the buffers.
//
// The mutex stands in for the interrupt-enable exclusion of a two-tier
// preemption model: the handlers run on the port's interrupt goroutines,
// everything else on foreground code, and every multi-field access happens
// under the lock.
type Channel struct {
	port Port

	mu      sync.Mutex
	rx      ring
	tx      ring
	txBusy  bool
	dropped uint32
}

// New creates a channel over the given port with the given ring buffer
// capacities (0 means DefaultBufferSize).
func New(port Port, rxSize, txSize int) *Channel {
	if rxSize <= 0 {
		rxSize = DefaultBufferSize
	}
	if txSize <= 0 {
		txSize = DefaultBufferSize
	}
	return &Channel{
		port: port,
		rx:   newRing(rxSize),
		tx:   newRing(txSize),
	}
}

// Init configures the port for baud (0 means DefaultBaudRate) with 8N1
// framing, enables receive-complete delivery, leaves the transmit-empty
// interrupt off until there is something to send, and enables interrupt
// delivery as the final step.
func (c *Channel) Init(baud int) error {
	if baud == 0 {
		baud = DefaultBaudRate
	}

	mode := Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   ParityNone,
		StopBits: 1,
	}
	if err := c.port.Configure(mode); err != nil {
		return fmt.Errorf("failed to configure serial port: %w", err)
	}

	c.mu.Lock()
	c.rx.reset()
	c.tx.reset()
	c.txBusy = false
	c.dropped = 0
	c.mu.Unlock()

	c.port.SetRxInterrupt(true)
	c.port.SetTxEmptyInterrupt(false)
	c.port.EnableInterrupts()
	return nil
}

// TrySendByte enqueues one byte for transmission. It returns false without
// blocking if the transmit buffer is full. When the channel is idle it
// arms the transmit-empty interrupt so the hardware starts draining.
func (c *Channel) TrySendByte(b byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tx.put(b) {
		return false
	}
	if !c.txBusy {
		c.txBusy = true
		c.port.SetTxEmptyInterrupt(true)
	}
	return true
}

// SendString enqueues every byte of s, spinning while the transmit buffer
// is momentarily full. This is the one blocking operation on the channel;
// the wait is bounded by the buffer drain rate, not by whole-byte
// transmission time.
func (c *Channel) SendString(s string) {
	for i := 0; i < len(s); i++ {
		for !c.TrySendByte(s[i]) {
			runtime.Gosched()
		}
	}
}

// BytesAvailable returns how many received bytes are waiting.
func (c *Channel) BytesAvailable() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rx.len()
}

// ReadByte dequeues one received byte. It returns 0 when the buffer is
// empty; callers gate on BytesAvailable, there is no blocking variant.
func (c *Channel) ReadByte() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, _ := c.rx.get()
	return b
}

// TxPending returns how many bytes are queued for transmission.
func (c *Channel) TxPending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tx.len()
}

// TxBusy reports whether the transmit-empty interrupt is armed and
// draining the transmit buffer.
func (c *Channel) TxBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txBusy
}

// DroppedBytes returns how many received bytes were discarded because the
// receive buffer was full.
func (c *Channel) DroppedBytes() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// HandleRxComplete is the receive-complete interrupt body. The data
// register is read exactly once; reading clears the hardware condition. A
// full buffer drops the byte and counts it rather than overwriting data.
func (c *Channel) HandleRxComplete() {
	b := c.port.ReadData()

	c.mu.Lock()
	if !c.rx.put(b) {
		c.dropped++
	}
	c.mu.Unlock()
}

// HandleTxEmpty is the transmit-empty interrupt body. With data queued it
// writes the next byte to the data register; with an empty buffer it
// disables its own trigger and clears the busy flag. The self-disable is
// mandatory: the condition is level-triggered and would re-fire forever.
func (c *Channel) HandleTxEmpty() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.tx.get(); ok {
		c.port.WriteData(b)
		return
	}
	c.port.SetTxEmptyInterrupt(false)
	c.txBusy = false
}
