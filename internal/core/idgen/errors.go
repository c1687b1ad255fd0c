package idgen

import (
	"errors"
	"fmt"

	"mngconsole/internal/core/apperror"
)

// Configuration-time failures.
var (
	ErrMissingQuery       = errors.New("idgen: allocator must have a query")
	ErrNotInitialized     = errors.New("idgen: allocator is not initialized")
	ErrAlreadyInitialized = errors.New("idgen: allocator is already initialized")
)

// Allocation-time failures.
var (
	ErrConnectionUnavailable = errors.New("idgen: unable to obtain a connection")
	ErrNoRowReturned         = errors.New("idgen: query for id did not return a value")
	ErrQueryFailed           = errors.New("idgen: query for id failed")
	ErrUnsupportedOperation  = errors.New("idgen: table-scoped allocation is not supported")
)

// ConfigError is returned when the allocator is used before (or instead of) a
// valid configuration. Callers usually treat it as fatal at startup.
type ConfigError struct {
	Kind error
}

func (e *ConfigError) Error() string {
	return e.Kind.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// NewConfigError wraps one of the configuration sentinels.
func NewConfigError(kind error) *ConfigError {
	return &ConfigError{Kind: kind}
}

// AllocationError is returned when a single allocation fails.
// Kind is one of the allocation sentinels; Cause is the driver error, if any.
type AllocationError struct {
	Kind  error
	Table string
	Cause error
}

func (e *AllocationError) Error() string {
	msg := e.Kind.Error()
	if e.Table != "" {
		msg = fmt.Sprintf("%s (table %q)", msg, e.Table)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the sentinel and the driver cause to errors.Is/As.
func (e *AllocationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// NewAllocationError wraps one of the allocation sentinels.
func NewAllocationError(kind, cause error) *AllocationError {
	return &AllocationError{Kind: kind, Cause: cause}
}

// IsConfigError reports whether err is a configuration failure.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsAllocationError reports whether err is an allocation failure.
func IsAllocationError(err error) bool {
	var allocErr *AllocationError
	return errors.As(err, &allocErr)
}

// ToAppError translates allocator errors for the API boundary.
// Errors that are not allocator errors are returned unchanged.
func ToAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsConfigError(err):
		return apperror.NewIDConfig(err)
	case IsAllocationError(err):
		return apperror.NewIDAllocation(err)
	default:
		return err
	}
}
