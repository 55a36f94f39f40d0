package history

import (
	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/event"
	"github.com/dshills/cellundo/internal/store"
)

// Option configures a Manager during creation.
type Option func(*config)

type config struct {
	tracked         []store.CellID
	trackingEnabled bool
	maxEntries      int
	logger          *zap.Logger
	bus             *event.Bus
}

func defaultConfig() config {
	return config{
		trackingEnabled: true,
		logger:          zap.NewNop(),
	}
}

// WithTrackedCells restricts history to the given cells. Only mutations
// that change one of them are recorded, and undo/redo only move them.
// Calling it with no IDs tracks nothing: no mutation is ever recorded.
// Without this option every cell is tracked.
func WithTrackedCells(ids ...store.CellID) Option {
	return func(c *config) {
		tracked := make([]store.CellID, 0, len(ids))
		seen := make(map[store.CellID]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			tracked = append(tracked, id)
		}
		c.tracked = tracked
	}
}

// WithTrackingEnabled sets whether recording starts enabled. Default true.
func WithTrackingEnabled(enabled bool) Option {
	return func(c *config) {
		c.trackingEnabled = enabled
	}
}

// WithMaxEntries bounds the number of undo steps kept. The oldest steps
// are dropped first. Zero or negative means unbounded, the default.
func WithMaxEntries(max int) Option {
	return func(c *config) {
		if max < 0 {
			max = 0
		}
		c.maxEntries = max
	}
}

// WithLogger sets the manager logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBus publishes a Change after every history transition.
func WithBus(bus *event.Bus) Option {
	return func(c *config) {
		c.bus = bus
	}
}
