package usecase

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrForbidden             = crerr.New("forbidden")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	ErrReferentialIntegrity  = crerr.New("resource is still referenced")
	ErrRemote                = crerr.New("remote feed error")
)

// RemoteError is a failed feed call. Payload holds the feed's own error
// report verbatim when it sent one.
type RemoteError struct {
	Message string
	Payload any
	Timeout bool
	Err     error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "feed request failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrRemote.Error(), msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrRemote.Error(), msg)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
