package tick

import "sync"

// DefaultTasks is the number of task slots the course scheduler provides.
const DefaultTasks = 3

// slot is one periodic task: ticks per trigger, ticks since the last
// trigger, and the one-shot ready flag. A zero period means the slot
// never fires.
type slot struct {
	period uint32
	count  uint32
	ready  bool
}

// Scheduler maintains a millisecond counter and a fixed set of periodic
// task-ready flags, all advanced by HandleOverflow, which the timer port's
// interrupt source must call once per overflow.
//
// The mutex stands in for the interrupt-enable exclusion of a two-tier
// preemption model: HandleOverflow runs on the interrupt goroutine,
// everything else on foreground code, and every multi-field access happens
// under the lock.
type Scheduler struct {
	port   TimerPort
	params Params

	mu     sync.Mutex
	millis uint32
	slots  []slot
}

// New creates a scheduler with the given timer parameters and task slot
// count (0 means DefaultTasks). Slots start with a zero period and must be
// configured with SetPeriod before they fire.
func New(port TimerPort, params Params, numTasks int) *Scheduler {
	if numTasks <= 0 {
		numTasks = DefaultTasks
	}
	return &Scheduler{
		port:   port,
		params: params,
		slots:  make([]slot, numTasks),
	}
}

// Init programs the timer: stop the clock, load the start value, select
// the running prescaler, and enable overflow delivery. It does not enable
// the port's interrupt distribution; that stays with the caller so the
// scheduler composes with other interrupt sources.
func (s *Scheduler) Init() {
	s.port.SetClock(ClockStop)
	s.port.Reload(s.params.Start)
	s.port.SetClock(s.params.Clock)
	s.port.SetOverflowInterrupt(true)
}

// Start resumes counting without touching the reload value or the
// interrupt enable.
func (s *Scheduler) Start() {
	s.port.SetClock(s.params.Clock)
}

// Stop pauses counting by clearing the clock select.
func (s *Scheduler) Stop() {
	s.port.SetClock(ClockStop)
}

// Tasks returns the number of task slots.
func (s *Scheduler) Tasks() int {
	return len(s.slots)
}

// SetPeriod configures how many ticks must elapse before the task's ready
// flag fires. It takes effect on the next tick; the in-flight count is not
// reset. A zero period disables the task. Out-of-range task ids are
// ignored.
func (s *Scheduler) SetPeriod(task int, ticks uint32) {
	if task < 0 || task >= len(s.slots) {
		return
	}
	s.mu.Lock()
	s.slots[task].period = ticks
	s.mu.Unlock()
}

// ElapsedMillis returns the millisecond counter. The value wraps at the
// uint32 boundary; use SinceMillis for elapsed-time arithmetic.
func (s *Scheduler) ElapsedMillis() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.millis
}

// SinceMillis returns the milliseconds elapsed since start, correct across
// counter wraparound.
func (s *Scheduler) SinceMillis(start uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.millis - start
}

// CheckAndConsume reports whether the task's period has elapsed since the
// last consume, clearing the ready flag as a side effect. It returns true
// exactly once per elapsed period and never blocks.
func (s *Scheduler) CheckAndConsume(task int) bool {
	if task < 0 || task >= len(s.slots) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots[task].ready {
		s.slots[task].ready = false
		return true
	}
	return false
}

// HandleOverflow is the timer overflow interrupt body. The reload comes
// first, before any counter work, to keep the period stable against
// interrupt latency. Slots are checked in ascending task order, so tasks
// whose periods coincide on the same tick become ready in index order.
func (s *Scheduler) HandleOverflow() {
	s.port.Reload(s.params.Start)

	s.mu.Lock()
	s.millis++
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.period == 0 {
			continue
		}
		sl.count++
		if sl.count >= sl.period {
			sl.ready = true
			sl.count = 0
		}
	}
	s.mu.Unlock()
}
