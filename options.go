package tennisx

import "log/slog"

// Recorder observes scoring. Implementations must be safe for concurrent use
// when several matches share one.
type Recorder interface {
	PointWon(kind Kind, p *Player)
	UnitFinished(kind Kind, winner *Score)
}

type nopRecorder struct{}

func (nopRecorder) PointWon(Kind, *Player)    {}
func (nopRecorder) UnitFinished(Kind, *Score) {}

type options struct {
	logger   *slog.Logger
	recorder Recorder
	drawer   Drawer
}

// Option configures a unit. Composite units pass their options on to the
// children they create.
type Option func(*options)

// WithLogger configures the logger. Units log at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRecorder configures a Recorder notified of points and finished units.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithDrawer configures the draw used by a Match to pick the first server.
func WithDrawer(d Drawer) Option {
	return func(o *options) {
		o.drawer = d
	}
}

func inherit(parent options) Option {
	return func(o *options) {
		*o = parent
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.recorder == nil {
		o.recorder = nopRecorder{}
	}
	return o
}
