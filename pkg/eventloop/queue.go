package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Queue is a wall-clock Dispatcher. Posted work accumulates until the owner
// calls Drain (a GUI host does this once per frame) or Run.
type Queue struct {
	mu      sync.Mutex
	pending []func()

	notify func()
	wake   chan struct{}
}

// NewQueue returns an empty queue. notify, when non-nil, is called after each
// Post so a GUI host can request a new frame; it may run on any goroutine.
func NewQueue(notify func()) *Queue {
	return &Queue{
		notify: notify,
		wake:   make(chan struct{}, 1),
	}
}

// Post implements Dispatcher.
func (q *Queue) Post(f func()) {
	if f == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, f)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	if q.notify != nil {
		q.notify()
	}
}

// AfterFunc implements Dispatcher. The timer fires on a runtime goroutine and
// only posts f; f itself runs during a later Drain.
func (q *Queue) AfterFunc(d time.Duration, f func()) CancelFunc {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		q.Post(func() {
			if !cancelled.Load() {
				f()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Now implements Dispatcher.
func (q *Queue) Now() time.Time {
	return time.Now()
}

// Len reports how many callbacks are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs queued callbacks in post order, including callbacks posted while
// draining, and returns how many ran. It must be called from the thread that
// owns the engine state.
func (q *Queue) Drain() int {
	ran := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, f := range batch {
			f()
			ran++
		}
	}
}

// Run drains the queue whenever work is posted until ctx is done. Use it for
// headless hosts that have no UI thread of their own.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
			q.Drain()
		}
	}
}
