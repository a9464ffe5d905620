package server

import (
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*options)

type options struct {
	host            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// WithHost sets the listen address.
func WithHost(host string) Option {
	return func(opts *options) {
		opts.host = host
	}
}

// WithTimeouts overrides the read, write and idle timeouts. Zero values
// keep the defaults of 5s, 10s and 120s.
func WithTimeouts(read, write, idle time.Duration) Option {
	return func(opts *options) {
		if read > 0 {
			opts.readTimeout = read
		}
		if write > 0 {
			opts.writeTimeout = write
		}
		if idle > 0 {
			opts.idleTimeout = idle
		}
	}
}

// WithShutdownTimeout bounds how long in-flight requests may take to finish
// once the context ends. Default is 20s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.shutdownTimeout = d
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = log
	}
}
