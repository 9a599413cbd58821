package services

import "fmt"

// ConfigurationError reports missing or invalid provider configuration.
// It is raised before any outbound request is made.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Setting == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Setting, e.Message)
}

// ProviderError reports a failed provider call: a non-2xx status, a transport
// failure (StatusCode 0) or a response body of an unrecognized shape.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("error from %s API (status %d): %s", e.Provider, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("error from %s API: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("error from %s API: %s", e.Provider, e.Body)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ParseError reports provider output with no recoverable JSON object
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a JSON object that does not satisfy the event contract
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
