package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnknownDriver is returned by DriverByName for unsupported names.
	ErrUnknownDriver = errors.New("tui: unknown prompt driver")
)
