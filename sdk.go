package dtracksdk

import (
	"log"
	"time"

	"github.com/banshee-data/dtracksdk/config"
	"github.com/banshee-data/dtracksdk/internal/timeutil"
	"github.com/banshee-data/dtracksdk/internal/transport"
)

// sessionConfig collects the construction-time knobs a Session needs.
// Built from config.Defaults plus any functional Options, assembled
// before the long-lived object it configures.
type sessionConfig struct {
	logger           *log.Logger
	defaults         *config.Defaults
	socketFactory    transport.UDPSocketFactory
	statsLogInterval time.Duration
	clock            timeutil.Clock
}

func defaultSessionConfig() *sessionConfig {
	return &sessionConfig{
		defaults:         config.Empty(),
		socketFactory:    transport.RealUDPSocketFactory{},
		statsLogInterval: time.Minute,
		clock:            timeutil.RealClock{},
	}
}

// Option configures a Session at construction time.
type Option func(*sessionConfig)

// WithLogger sets the logger a Session uses for warnings and traces,
// defaulting to log.Default() -- this is what lets multiple sessions in
// one process avoid interleaving unreadably.
func WithLogger(logger *log.Logger) Option {
	return func(c *sessionConfig) { c.logger = logger }
}

// WithDefaults overrides the SDK's timeout/buffer-size defaults.
func WithDefaults(d *config.Defaults) Option {
	return func(c *sessionConfig) {
		if d != nil {
			c.defaults = d
		}
	}
}

// WithSocketFactory injects a transport.UDPSocketFactory, the seam tests
// use to supply a deterministic fake instead of real OS sockets.
func WithSocketFactory(factory transport.UDPSocketFactory) Option {
	return func(c *sessionConfig) {
		if factory != nil {
			c.socketFactory = factory
		}
	}
}

// WithStatsLogInterval sets how often the background counters summary is
// logged; zero disables the background logger goroutine entirely.
func WithStatsLogInterval(d time.Duration) Option {
	return func(c *sessionConfig) { c.statsLogInterval = d }
}

// WithClock injects a timeutil.Clock, the seam tests use to drive the
// stats-logging ticker deterministically instead of waiting on real time.
func WithClock(clock timeutil.Clock) Option {
	return func(c *sessionConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}
