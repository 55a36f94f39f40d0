package event

import "go.uber.org/zap"

// BusOption configures a Bus.
type BusOption func(*busConfig)

type busConfig struct {
	logger       *zap.Logger
	panicHandler PanicHandler
}

func defaultBusConfig() busConfig {
	return busConfig{
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used for handler failures.
func WithLogger(logger *zap.Logger) BusOption {
	return func(c *busConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPanicHandler installs a callback invoked when a handler panics.
// Panics are always recovered; the handler is only notified.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}
