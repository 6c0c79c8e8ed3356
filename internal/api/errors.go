package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a handler failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindInvalidCredential
	KindForbidden
	KindNotFound
)

// Error is a failure that maps onto an HTTP status and a client-facing
// message. Err, when set, is logged but never sent to the client outside
// development mode.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func errValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

func errNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg}
}

func errUnauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Status: http.StatusUnauthorized, Message: "Access token required"}
}

// errInvalidToken is an InvalidCredential failure for bearer tokens (403).
func errInvalidToken(err error) *Error {
	return &Error{Kind: KindInvalidCredential, Status: http.StatusForbidden, Message: "Invalid or expired token", Err: err}
}

// errBadCredentials is an InvalidCredential failure for passwords (401).
func errBadCredentials(msg string) *Error {
	return &Error{Kind: KindInvalidCredential, Status: http.StatusUnauthorized, Message: msg}
}

func errForbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusForbidden, Message: msg}
}

func errInternal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// asError returns err as an *Error, wrapping unknown errors as internal.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return errInternal("Something went wrong!", err)
}
