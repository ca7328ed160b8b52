package response

import (
	"errors"
)

// Error carries the HTTP status to answer with and, optionally, a
// machine-readable code clients can switch on.
type Error struct {
	Code int
	Slug string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Slug == t.Slug && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

// NewCodedError is NewError with a slug such as "BOOKING_NOT_FOUND".
func NewCodedError(code int, slug, err string) error {
	return &Error{Code: code, Slug: slug, Err: errors.New(err)}
}
