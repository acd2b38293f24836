package apiclient

import (
	"errors"
	"fmt"
)

// Kind buckets a failed call by what the caller can do about it.
type Kind string

const (
	// KindValidation means the server rejected the payload; Fields may
	// carry per-field messages.
	KindValidation Kind = "validation"
	// KindAuth means the session is no longer valid and the user has to
	// sign in again.
	KindAuth Kind = "auth"
	// KindNotFound means the addressed resource does not exist.
	KindNotFound Kind = "not_found"
	// KindNetwork means the request never produced an HTTP response.
	KindNetwork Kind = "network"
	// KindTimeout means the request exceeded the client timeout.
	KindTimeout Kind = "timeout"
	// KindServer is everything else the server answered with.
	KindServer Kind = "server"
)

// Error is the single error type every client call returns on failure.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Fields  map[string][]string

	cause error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the kind of a client error, or KindServer when err is
// not one.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}

	return KindServer
}

// IsKind reports whether err is a client error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}
