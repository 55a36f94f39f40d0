package script

import "errors"

var (
	// ErrHostClosed is returned when running code on a closed host.
	ErrHostClosed = errors.New("script host is closed")

	// ErrCellsSealed is raised when a cell is defined after the history
	// manager has been created.
	ErrCellsSealed = errors.New("cells must be defined before the first mutation")
)
