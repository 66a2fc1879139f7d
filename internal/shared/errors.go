package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrSearch             = fmt.Errorf("search failed")
	ErrNoCatalog          = fmt.Errorf("no catalog available")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("not found")

	// Process errors
	ErrSpawn             = fmt.Errorf("failed to start process")
	ErrSignal            = fmt.Errorf("failed to signal process")
	ErrSignalUnsupported = fmt.Errorf("process signals not supported on this platform")

	// Download errors
	ErrIO     = fmt.Errorf("i/o error")
	ErrFormat = fmt.Errorf("no acceptable audio format")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
