package eventbus

import "log/slog"

// Option configures a Bus via the functional options pattern.
type Option func(*Bus)

// WithDispatcher configures how published batches are scheduled.
func WithDispatcher(d Dispatcher) Option {
	return func(b *Bus) {
		b.dispatcher = d
	}
}

// WithLogger configures the logger used for dropped events and handler panics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = l
	}
}
