package activity

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// IdleTimeout is how long a session may go without a qualifying interaction or
// a successful backend response before it is logged out.
const IdleTimeout = 30 * time.Minute

type state int

const (
	stateNew state = iota
	stateArmed
	stateExpired
	stateStopped
)

// Monitor tracks the most recent user activity for one session and calls
// onIdle once when the idle threshold passes without any.
type Monitor struct {
	mu       sync.Mutex
	clock    Clock
	idle     time.Duration
	onIdle   func()
	state    state
	timer    Timer
	gen      uint64
	deadline time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(m *Monitor) {
		m.clock = c
	}
}

// New creates a stopped monitor. A non-positive idle uses IdleTimeout.
func New(idle time.Duration, onIdle func(), opts ...Option) *Monitor {
	if idle <= 0 {
		idle = IdleTimeout
	}
	m := &Monitor{
		clock:  SystemClock,
		idle:   idle,
		onIdle: onIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start arms the idle deadline. Calling Start on a running monitor resets it.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rearm()
}

// Stop cancels the pending deadline without calling onIdle. Interactions are
// ignored until the next Start.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel()
	m.state = stateStopped
	m.deadline = time.Time{}
}

// Observe records a user interaction. Kinds that do not qualify are ignored.
// It reports whether the deadline was reset.
func (m *Monitor) Observe(k Kind) bool {
	if !k.Qualifies() {
		return false
	}
	return m.reset()
}

// Touch records a successful backend response.
func (m *Monitor) Touch() {
	m.reset()
}

// Deadline returns the instant onIdle is scheduled for, or the zero time when
// nothing is scheduled.
func (m *Monitor) Deadline() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deadline
}

// Running reports whether a deadline is scheduled.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == stateArmed
}

func (m *Monitor) reset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case stateArmed, stateExpired:
		m.rearm()
		return true
	default:
		return false
	}
}

// rearm must be called with mu held.
func (m *Monitor) rearm() {
	m.cancel()
	m.gen++
	gen := m.gen
	m.state = stateArmed
	m.deadline = m.clock.Now().Add(m.idle)
	m.timer = m.clock.AfterFunc(m.idle, func() { m.fire(gen) })
}

// cancel must be called with mu held.
func (m *Monitor) cancel() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Monitor) fire(gen uint64) {
	m.mu.Lock()
	// A reset that raced with this timer bumped the generation.
	if gen != m.gen || m.state != stateArmed {
		m.mu.Unlock()
		return
	}
	m.state = stateExpired
	m.timer = nil
	m.deadline = time.Time{}
	onIdle := m.onIdle
	m.mu.Unlock()

	log.Debug().Dur("idle", m.idle).Msg("session idle deadline reached")
	if onIdle != nil {
		onIdle()
	}
}
