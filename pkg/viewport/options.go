package viewport

import "time"

// Option configures a Viewport during creation.
type Option func(*options)

type options struct {
	now func() time.Time
}

func defaultOptions() options {
	return options{now: time.Now}
}

// WithClock sets the time source used for the user-zoom cooldown. Panes pass
// their dispatcher's clock so virtual time drives the cooldown in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
