package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for the outer surfaces (config, storage, CLI). The engine
// itself never returns errors.
var (
	// ErrInvalidConfig indicates a configuration that cannot drive a run.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnknownPreset indicates a preset name with no definition.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrEmptyRun indicates a run that produced no landings to analyze.
	ErrEmptyRun = errors.New("dynamo: run recorded no landings")

	// ErrRunNotFound indicates a missing run directory.
	ErrRunNotFound = errors.New("dynamo: run not found")
)

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
