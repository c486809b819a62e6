package editor

import "errors"

var (
	// ErrIndexOutOfRange is returned when a reorder names a position
	// outside the current list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidTheme is returned when a phase update carries an unknown theme.
	ErrInvalidTheme = errors.New("invalid theme")
)
