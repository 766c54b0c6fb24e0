package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped when the service answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrDecode is wrapped when a response body cannot be parsed.
	ErrDecode = errors.New("invalid response body")
)

// TransportError describes a failed exchange with the project service: the
// request could not be sent, the status was not 2xx, or the body did not parse.
type TransportError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s %s: status %d: %v", e.Op, e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// clientFault reports whether err is a 4xx answer. Those mean the service is
// reachable, so they do not count against the circuit breaker.
func clientFault(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500
}
