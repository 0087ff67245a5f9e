package pattern

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is matched by every error returned from Parse and Compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// SyntaxError describes a template the parser could not accept.
type SyntaxError struct {
	Pattern string
	Index   int
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at index %d in pattern %q", e.Message, e.Index, e.Pattern)
}

// Is checks if the error matches the target.
func (e *SyntaxError) Is(target error) bool {
	if target == ErrInvalidPattern {
		return true
	}
	_, ok := target.(*SyntaxError)
	return ok
}

func newSyntaxError(pattern string, index int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pattern: pattern,
		Index:   index,
		Message: fmt.Sprintf(format, args...),
	}
}
