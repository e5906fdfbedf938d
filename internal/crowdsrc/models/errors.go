package models

import (
	"errors"
	"fmt"
)

// CreateUserError is the closed set of failures a user creation can end in.
// The variants are *DuplicateUserNameError, *DuplicateEmailError and
// *UnknownError; the unexported marker keeps the set closed to this package.
type CreateUserError interface {
	error
	createUserError()
}

// DuplicateUserNameError reports that the username is already taken.
type DuplicateUserNameError struct {
	UserName UserName
}

func (e *DuplicateUserNameError) Error() string {
	return fmt.Sprintf("user with user name %s already exists", e.UserName)
}

func (*DuplicateUserNameError) createUserError() {}

// DuplicateEmailError reports that the email address is already registered.
type DuplicateEmailError struct {
	Email EmailAddress
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("user with email %s already exists", e.Email)
}

func (*DuplicateEmailError) createUserError() {}

// UnknownError carries any failure that is not a uniqueness conflict. Cause
// keeps the full diagnostic chain and must never reach a client.
type UnknownError struct {
	Cause error
}

// NewUnknownError wraps cause, returning nil for a nil cause.
func NewUnknownError(cause error) *UnknownError {
	if cause == nil {
		return nil
	}
	return &UnknownError{Cause: cause}
}

func (e *UnknownError) Error() string { return e.Cause.Error() }

func (e *UnknownError) Unwrap() error { return e.Cause }

func (*UnknownError) createUserError() {}

// AsCreateUserError recovers the CreateUserError variant carried by err.
// Errors outside the taxonomy are reported as *UnknownError so callers can
// always switch exhaustively.
func AsCreateUserError(err error) CreateUserError {
	if err == nil {
		return nil
	}
	var dupName *DuplicateUserNameError
	if errors.As(err, &dupName) {
		return dupName
	}
	var dupEmail *DuplicateEmailError
	if errors.As(err, &dupEmail) {
		return dupEmail
	}
	var unknown *UnknownError
	if errors.As(err, &unknown) {
		return unknown
	}
	return &UnknownError{Cause: err}
}
