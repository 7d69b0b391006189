package transport

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned before any network activity when a request
// cannot be sent as it is.
var ErrInvalidInput = errors.New("invalid input")

type Cause string

const (
	// CauseNetwork means no response was received.
	CauseNetwork Cause = "network"
	// CauseServer means the backend answered with a non-success status.
	CauseServer Cause = "server"
	// CauseMalformedResponse means the response could not be decoded or
	// lacked a required field.
	CauseMalformedResponse Cause = "malformed_response"
)

// TransportError is returned by every backend call that reached the
// network. No partial result accompanies it.
type TransportError struct {
	Op    string
	Cause Cause
	// StatusCode is set for CauseServer.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s error (status %d): %v", e.Op, e.Cause, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s error (status %d)", e.Op, e.Cause, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Cause, e.Err)
	}
	return fmt.Sprintf("%s: %s error", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Err }

// CauseOf returns the cause of a TransportError anywhere in err's chain.
func CauseOf(err error) (Cause, bool) {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Cause, true
	}
	return "", false
}
