package route

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrUnknownRoute    = errors.New("unknown route")
	ErrTemplateInvalid = errors.New("invalid template")
	ErrInvalidValue    = errors.New("invalid parameter value")
	ErrDuplicateRoute  = errors.New("duplicate route")
)

// UnknownRouteError is returned when a route name is not in the table.
type UnknownRouteError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownRouteError) Error() string {
	return fmt.Sprintf("unknown route %q", e.Name)
}

// Is checks if the error matches the target.
func (e *UnknownRouteError) Is(target error) bool {
	if target == ErrUnknownRoute {
		return true
	}
	_, ok := target.(*UnknownRouteError)
	return ok
}

// CompileError reports a template rejected both as written and after
// legacy translation.
type CompileError struct {
	Template   string
	Translated string
	Cause      error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Translated != "" && e.Translated != e.Template {
		return fmt.Sprintf("compile template %q (translated %q): %v", e.Template, e.Translated, e.Cause)
	}
	return fmt.Sprintf("compile template %q: %v", e.Template, e.Cause)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *CompileError) Is(target error) bool {
	if target == ErrTemplateInvalid {
		return true
	}
	_, ok := target.(*CompileError)
	return ok || errors.Is(e.Cause, target)
}

// ValueError reports a parameter value that cannot be written into a path.
type ValueError struct {
	Param string
	Value any
	Cause error
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("parameter %q: cannot use %T value: %v", e.Param, e.Value, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ValueError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ValueError) Is(target error) bool {
	if target == ErrInvalidValue {
		return true
	}
	_, ok := target.(*ValueError)
	return ok
}
