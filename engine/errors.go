package engine

import "fmt"

// ConfigError reports an invalid engine configuration. A run never starts
// with a bad configuration, so no partial results follow this error.
type ConfigError struct {
	Option string
	Reason string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option, reason string) *ConfigError {
	return &ConfigError{Option: option, Reason: reason}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Option, e.Reason)
}

// BatchError reports a structurally unusable batch. Malformed field values
// inside a record are rule violations, not batch errors; this error is
// reserved for input the engine cannot even iterate.
type BatchError struct {
	Index  int
	Reason string
}

// NewBatchError creates a new BatchError for the record at index.
func NewBatchError(index int, reason string) *BatchError {
	return &BatchError{Index: index, Reason: reason}
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("invalid batch: record %d %s", e.Index, e.Reason)
}
