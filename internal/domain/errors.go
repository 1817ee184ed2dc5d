package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownSession is reported when an update targets an id that was never created
var ErrUnknownSession = errors.New("unknown session")

// GenerationError wraps a text-generation failure for one content kind
type GenerationError struct {
	Kind string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ProbeError wraps a knowledge-probe failure for one probe kind
type ProbeError struct {
	ProbeKind string
	Err       error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe failed for %s: %v", e.ProbeKind, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// ConfigurationError marks missing or invalid startup configuration
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Message)
}
