package servererrors

import "errors"

var (
	ErrInvalidRequestPayload = errors.New("invalid request payload")
	ErrValidationFailed      = errors.New("validation failed")
	ErrURLQueryParams        = errors.New("invalid url query params")
	ErrInvalidURLParam       = errors.New("invalid url param")
	ErrNotFound              = errors.New("resource not found")
	ErrServiceBusy           = errors.New("service busy, try again")
)

// ServerError is an error that is safe to show to the client. Errors holds
// optional per-field details.
type ServerError struct {
	StatusCode int
	Message    string
	Errors     any
}

func New(statusCode int, message string, errs any) *ServerError {
	return &ServerError{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}

func (e *ServerError) Error() string {
	return e.Message
}
