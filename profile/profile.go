package profile

import "github.com/ardnew/sxview/pkg"

// Config holds the profiler settings.
type Config struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory
	Quiet bool   // suppress the profiler's own log output
}

// Option is a functional option for [Config].
type Option = pkg.Option[Config]

// WithMode sets the profiler mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath sets the profile output directory.
func WithPath(path string) Option {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet sets whether the profiler logs its own start and stop.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Start starts the profiler and returns a controller for stopping it.
//
// If the pprof build tag is unset, or Mode is empty or unknown, Start
// returns a no-op controller. Both Start and Stop are always safely
// callable.
func (c Config) Start() interface{ Stop() } {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
