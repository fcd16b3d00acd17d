// Package eventloop provides the single thread of control the viewer engine
// runs on.
//
// Every transform update, state-machine transition and preload completion is
// executed by a Dispatcher. Work that finishes on another goroutine (a network
// fetch, a timer) is posted back to the dispatcher instead of touching pane
// state directly, so the engine needs no locks.
//
// Two dispatchers are provided:
//   - Queue: wall-clock timers, drained by the host on its UI thread (Drain)
//     or by a dedicated goroutine (Run).
//   - Manual: virtual time for tests and scripted sessions; Advance moves the
//     clock and fires due timers in deadline order.
package eventloop
