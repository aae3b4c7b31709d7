package domain

import (
	"errors"
	"fmt"
)

// Code classifies startup errors.
type Code string

const (
	CodeMalformedArgument      Code = "MALFORMED_ARGUMENT"
	CodeInaccessibleConfigFile Code = "INACCESSIBLE_CONFIG_FILE"
	CodeDependency             Code = "DEPENDENCY_CONSTRUCTION"
	CodeStartupStep            Code = "STARTUP_STEP"
	CodeOutdated               Code = "OUTDATED"
)

// ErrOutdated marks a component artifact that no longer matches what this
// launcher expects.
var ErrOutdated = &Error{Code: CodeOutdated, Message: "component is outdated"}

// Error is a coded startup error.
type Error struct {
	Code    Code
	Message string
	// Token is the offending launch argument, if any.
	Token string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// MalformedArgument reports a launch token that could not be parsed.
func MalformedArgument(token string, cause error) *Error {
	return &Error{
		Code:    CodeMalformedArgument,
		Message: fmt.Sprintf("malformed argument %q", token),
		Token:   token,
		Cause:   cause,
	}
}

// InaccessibleConfigFile reports a settings path that exists but cannot be
// written.
func InaccessibleConfigFile(path string) *Error {
	return &Error{
		Code:    CodeInaccessibleConfigFile,
		Message: fmt.Sprintf("file %s is not accessible", path),
		Token:   path,
	}
}

// Wrap builds a coded error around cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}
