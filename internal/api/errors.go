package api

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned before any network call when an endpoint
// requires a bearer token and none is held.
var ErrNoSession = errors.New("no session token")

// AuthError is a rejected login or registration. No partial session state
// is ever created from one.
type AuthError struct {
	Op     string
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s rejected by backend (status %d)", e.Op, e.Status)
}

// RequestError is any failed backend call: a non-2xx status, or a 2xx body
// carrying an explicit success:false envelope. Both collapse into this one
// representation so callers never have to tell them apart.
type RequestError struct {
	Op     string
	Status int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s failed (status %d)", e.Op, e.Status)
}
