package store

import "errors"

// Errors returned by store mutations.
var (
	// ErrUnknownCell indicates a cell that was never defined.
	ErrUnknownCell = errors.New("unknown cell")

	// ErrCellExists indicates a cell was defined twice.
	ErrCellExists = errors.New("cell already defined")

	// ErrDerivedCell indicates an attempt to write a derived cell.
	ErrDerivedCell = errors.New("derived cells are read-only")
)
