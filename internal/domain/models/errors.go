package models

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError is a fatal configuration problem detected before any scanning
// begins: unknown strategy, missing required parameter or column binding.
type ConfigError struct {
	Param   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("config: %s: %s", e.Param, e.Message)
	}
	return "config: " + e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a ConfigError for the named parameter.
func NewConfigError(param, message string) *ConfigError {
	return &ConfigError{Param: param, Message: message}
}

// DataError marks unusable source data: empty or too-short series,
// non-monotonic timestamps, or a required column absent at call time.
// Available carries the column names that were present, for diagnostics.
type DataError struct {
	Column    string
	Available []string
	Message   string
	Err       error
}

func (e *DataError) Error() string {
	msg := "data: " + e.Message
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q", e.Column)
		if len(e.Available) > 0 {
			msg += ", available: " + strings.Join(e.Available, ", ")
		}
		msg += ")"
	}
	return msg
}

func (e *DataError) Unwrap() error { return e.Err }

// NewDataError creates a DataError naming the offending column and the
// columns that were available.
func NewDataError(column string, available []string, message string) *DataError {
	return &DataError{Column: column, Available: available, Message: message}
}

// ComputeError marks a locally degraded numeric result (degenerate variance,
// NaN correlation). It never propagates past the owning strategy call.
type ComputeError struct {
	Metric  string
	Message string
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("compute: %s: %s", e.Metric, e.Message)
}

// NewComputeError creates a ComputeError for the named metric.
func NewComputeError(metric, message string) *ComputeError {
	return &ComputeError{Metric: metric, Message: message}
}

// IsConfigError reports whether err wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsDataError reports whether err wraps a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
