package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is matched by StatusError for any non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrUnhandledRepositoryURL is returned when a repository URL is not of the form https://github.com/<user>/<repository>.
	ErrUnhandledRepositoryURL = errors.New("unhandled repository url format")
)

// StatusError reports a non-success HTTP response along with its body.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response (status=%d body=%s)", e.StatusCode, e.Body)
}

// Is reports whether target is ErrUnexpectedStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// DecodeError reports a document that was retrieved but could not be decoded.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
