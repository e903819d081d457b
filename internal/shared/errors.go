package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Upstream and data errors
	ErrNotConfigured        = fmt.Errorf("upstream API not configured")
	ErrUpstreamUnavailable  = fmt.Errorf("upstream API unavailable")
	ErrNormalizationAnomaly = fmt.Errorf("unexpected upstream record shape")
	ErrFallbackExhausted    = fmt.Errorf("fallback catalog has no entry")
	ErrTimeout              = fmt.Errorf("operation timed out")
	ErrNotFound             = fmt.Errorf("not found")
	ErrAlreadyExists        = fmt.Errorf("already exists")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
