package services

import "fmt"

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// BusyError is returned while another message is in flight.
type BusyError struct{ Message string }

func (e *BusyError) Error() string { return e.Message }

// InitializationError means no session could be created. Err is the
// underlying cause, usually a *config.ConfigurationError or a connector
// failure.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("session initialization failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// TransportError wraps a failed round trip against the model endpoint,
// including cancellation and timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gemini round trip failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
