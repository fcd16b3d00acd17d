package eventloop

import (
	"sort"
	"sync"
	"time"
)

type manualTimer struct {
	deadline  time.Time
	seq       uint64
	f         func()
	cancelled bool
}

// Manual is a Dispatcher driven by virtual time. Nothing runs until Drain or
// Advance is called, which makes event ordering fully deterministic.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	queue  []func()
	timers []*manualTimer
	seq    uint64
}

// NewManual returns a Manual dispatcher whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Post implements Dispatcher.
func (m *Manual) Post(f func()) {
	if f == nil {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, f)
	m.mu.Unlock()
}

// AfterFunc implements Dispatcher.
func (m *Manual) AfterFunc(d time.Duration, f func()) CancelFunc {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	m.seq++
	t := &manualTimer{deadline: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		t.cancelled = true
		m.mu.Unlock()
	}
}

// Now implements Dispatcher.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending reports queued callbacks and live timers.
func (m *Manual) Pending() (queued, timers int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.timers {
		if !t.cancelled {
			timers++
		}
	}
	return len(m.queue), timers
}

// Drain runs queued callbacks, including ones posted while draining. Timers
// are not fired.
func (m *Manual) Drain() int {
	ran := 0
	for {
		m.mu.Lock()
		batch := m.queue
		m.queue = nil
		m.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, f := range batch {
			f()
			ran++
		}
	}
}

// Advance moves the clock forward by d. Due timers fire in deadline order
// (ties in scheduling order) with the clock set to their deadline, and the
// queue is drained before and after each timer.
func (m *Manual) Advance(d time.Duration) {
	m.Drain()

	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		t.f()
		m.Drain()
	}

	m.mu.Lock()
	if target.After(m.now) {
		m.now = target
	}
	m.mu.Unlock()
	m.Drain()
}

// nextDue removes and returns the earliest live timer due at or before
// target, moving the clock to its deadline.
func (m *Manual) nextDue(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.timers = live
	if len(m.timers) == 0 {
		return nil
	}

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].deadline.Equal(m.timers[j].deadline) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].deadline.Before(m.timers[j].deadline)
	})
	first := m.timers[0]
	if first.deadline.After(target) {
		return nil
	}
	m.timers = m.timers[1:]
	if first.deadline.After(m.now) {
		m.now = first.deadline
	}
	return first
}
