// Package errs defines the closed set of error kinds surfaced by cluster
// operations. Callers match on kind with errors.As rather than inspecting
// message text.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports invalid input or invalid remote state: bad
// names, address collisions, license ceilings. Never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ConnectionError reports that the management channel could not be reached
// or authenticated after the configured connection retries.
type ConnectionError struct {
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	msg := "unable to connect to management channel"
	if e.Address != "" {
		msg += " at " + e.Address
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StatusError reports that an operation never reached its expected terminal
// state within its retry or duration budget. Conditions optionally names
// the remote alert conditions observed at the time of failure.
type StatusError struct {
	Reason     string
	Conditions []string
}

func (e *StatusError) Error() string {
	if len(e.Conditions) > 0 {
		return fmt.Sprintf("%s (conditions: %s)", e.Reason, strings.Join(e.Conditions, ", "))
	}
	return e.Reason
}

// Statusf builds a StatusError from a format string.
func Statusf(format string, args ...any) error {
	return &StatusError{Reason: fmt.Sprintf(format, args...)}
}

// TaskError is a single failure collected by the fan-out executor.
type TaskError struct {
	Description string
	Err         error
}

func (e TaskError) Error() string {
	if e.Err == nil {
		return e.Description
	}
	return fmt.Sprintf("%s: %v", e.Description, e.Err)
}

func (e TaskError) Unwrap() error {
	return e.Err
}

// ServiceError aggregates per-node failures from a fan-out operation. It is
// raised only when at least one task failed; all tasks will have run to
// completion before it is returned.
type ServiceError struct {
	Failures []TaskError
}

func (e *ServiceError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d operation(s) failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *ServiceError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// CreateError wraps the original cause of a failed create or add-nodes
// operation after rollback has been attempted.
type CreateError struct {
	Op  string
	Err error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CreateError) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// IsConnection reports whether err is a ConnectionError.
func IsConnection(err error) bool {
	var e *ConnectionError
	return errors.As(err, &e)
}

// IsStatus reports whether err is a StatusError.
func IsStatus(err error) bool {
	var e *StatusError
	return errors.As(err, &e)
}

// IsService reports whether err is a ServiceError.
func IsService(err error) bool {
	var e *ServiceError
	return errors.As(err, &e)
}
