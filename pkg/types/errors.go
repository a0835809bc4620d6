package types

import "fmt"

// ParamError marks malformed or missing input, caught before any network
// call. A call failing this way performed no I/O.
type ParamError struct {
	Msg string
}

func (e *ParamError) Error() string {
	return e.Msg
}

// NewParamError builds a ParamError from a format string.
func NewParamError(format string, args ...any) *ParamError {
	return &ParamError{Msg: fmt.Sprintf(format, args...)}
}

// InternalError marks a transport or request-construction failure: the call
// never produced an upstream response. Upstream rejections (4xx/5xx) are not
// internal errors; they are returned as envelope data.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// NewInternalError builds an InternalError with no wrapped cause.
func NewInternalError(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
