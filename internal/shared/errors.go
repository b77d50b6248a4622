package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and transport errors
	ErrNetwork    = fmt.Errorf("network request failed")
	ErrNotFound   = fmt.Errorf("resource not found")
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Reader errors
	ErrUnsupportedFormat = fmt.Errorf("unsupported document format")
	ErrSeek              = fmt.Errorf("seek target not resolvable")
	ErrSessionBusy       = fmt.Errorf("session open already in flight")
	ErrSessionClosed     = fmt.Errorf("session is closed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
