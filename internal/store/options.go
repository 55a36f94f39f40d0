package store

import (
	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/event"
)

// Option configures a Store during creation.
type Option func(*Store)

// WithBus publishes commits on an existing bus instead of a private one.
func WithBus(bus *event.Bus) Option {
	return func(s *Store) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCells defines base cells with their initial values.
func WithCells(cells map[CellID]any) Option {
	return func(s *Store) {
		for id, v := range cells {
			s.initial[id] = v
		}
	}
}
