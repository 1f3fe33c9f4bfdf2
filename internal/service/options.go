package service

import "time"

type options struct {
	now func() time.Time
}

// Option customises a service at construction time.
type Option func(*options)

// WithClock overrides time.Now; tests use it to pin clock-in/out instants.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
