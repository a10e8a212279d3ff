package uart

// ring is a fixed-capacity byte FIFO over a flat array with wraparound
// indices and an explicit count, so full and empty are unambiguous without
// sacrificing a slot. head moves on put, tail on get; the caller holds the
// channel lock, so head, tail and count always change together.
type ring struct {
	buf   []byte
	head  int
	tail  int
	count int
}

func newRing(size int) ring {
	return ring{buf: make([]byte, size)}
}

// put stores one byte. It returns false when the buffer is full.
func (r *ring) put(b byte) bool {
	if r.count >= len(r.buf) {
		return false
	}
	r.buf[r.head] = b
	r.head = (r.head + 1) % len(r.buf)
	r.count++
	return true
}

// get removes the oldest byte. It returns (0, false) when empty.
func (r *ring) get() (byte, bool) {
	if r.count == 0 {
		return 0, false
	}
	b := r.buf[r.tail]
	r.tail = (r.tail + 1) % len(r.buf)
	r.count--
	return b, true
}

func (r *ring) len() int { return r.count }

func (r *ring) cap() int { return len(r.buf) }

func (r *ring) reset() {
	r.head = 0
	r.tail = 0
	r.count = 0
}
