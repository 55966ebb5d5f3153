package ficfetch

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// EUPSTREAM reports a failed upstream request: a non-2xx response or a
	// transport failure such as a timeout, DNS error or connection reset.
	EUPSTREAM = "upstream"

	// EEXTRACT reports a document that could not be parsed as markup.
	EEXTRACT = "extract"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string

	// Status is the upstream HTTP status for EUPSTREAM errors caused by a
	// non-2xx response. Zero for transport failures and other codes.
	Status int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ficfetch error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// UpstreamErrorf returns an EUPSTREAM error carrying the upstream status.
func UpstreamErrorf(status int, format string, args ...any) *Error {
	e := Errorf(EUPSTREAM, format, args...)
	e.Status = status
	return e
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// UpstreamStatus returns the upstream HTTP status recorded on err,
// or zero if there is none.
func UpstreamStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
