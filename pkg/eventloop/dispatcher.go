package eventloop

import "time"

// CancelFunc stops a pending AfterFunc callback. Calling it after the
// callback ran, or more than once, is harmless.
type CancelFunc func()

// Dispatcher serializes engine work onto one thread of control.
type Dispatcher interface {
	// Post schedules f to run on the dispatcher thread. Safe to call from
	// any goroutine.
	Post(f func())
	// AfterFunc schedules f to run on the dispatcher thread once d has
	// elapsed.
	AfterFunc(d time.Duration, f func()) CancelFunc
	// Now reports the dispatcher's notion of the current time.
	Now() time.Time
}
