package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind names a category of the error taxonomy reported for a unit or a scan.
type ErrorKind string

const (
	KindModuleLoad     ErrorKind = "ModuleLoadError"
	KindConstruction   ErrorKind = "ConstructionError"
	KindInvocation     ErrorKind = "InvocationError"
	KindConfiguration  ErrorKind = "ConfigurationError"
	KindNotImplemented ErrorKind = "NotImplementedError"
	KindTimeout        ErrorKind = "TimeoutError"
	KindSkipped        ErrorKind = "SkippedError"
)

// ModuleLoadError is recorded when a module cannot be loaded during a scan, or when it
// references a type or method the registry does not know. It never aborts the scan.
type ModuleLoadError struct {
	Module string
	Type   string // empty when the whole module failed
	Err    error
}

func (e *ModuleLoadError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("module %s: type %s: %v", e.Module, e.Type, e.Err)
	}
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

func (e *ModuleLoadError) Unwrap() error { return e.Err }

// ConstructionError means a test container could not be instantiated. All units of that
// container are reported as NotRun.
type ConstructionError struct {
	Class string
	Err   error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("could not construct %s: %v", e.Class, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// ConfigurationError is returned when a URI template references a variable that is not
// present in the variable context.
type ConfigurationError struct {
	Variable string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unable to find a variable named %q", e.Variable)
}

// NotImplementedError is returned by collaborator operations that are declared but not
// supported.
type NotImplementedError struct {
	Operation string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.Operation)
}

// TimeoutError is returned when a unit does not complete within its time limit.
type TimeoutError struct {
	Invocation Invocation
	After      time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not complete within %s", e.Invocation, e.After)
}

// SkippedError is attached to units that were never started because the run stopped early.
type SkippedError struct {
	Reason string
}

func (e *SkippedError) Error() string {
	return "not started: " + e.Reason
}

// KindOf classifies an error raised by a hook or test body. Anything that is not one of the
// typed errors above is an InvocationError.
func KindOf(err error) ErrorKind {
	var (
		cfgErr     *ConfigurationError
		notImplErr *NotImplementedError
		timeoutErr *TimeoutError
		ctorErr    *ConstructionError
		loadErr    *ModuleLoadError
		skipErr    *SkippedError
	)
	switch {
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &notImplErr):
		return KindNotImplemented
	case errors.As(err, &timeoutErr):
		return KindTimeout
	case errors.As(err, &ctorErr):
		return KindConstruction
	case errors.As(err, &loadErr):
		return KindModuleLoad
	case errors.As(err, &skipErr):
		return KindSkipped
	default:
		return KindInvocation
	}
}
