package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodeIdentityTaken      = "USR002"
	ErrCodeInvalidCredentials = "USR003"
	ErrCodeForbidden          = "USR004"
)

// Errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrIdentityTaken      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("you can only update your own profile")
)

// UserError custom error type
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewUserNotFoundError() *UserError {
	return &UserError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
		Err:     ErrUserNotFound,
	}
}

func NewIdentityTakenError() *UserError {
	return &UserError{
		Code:    ErrCodeIdentityTaken,
		Message: "Username or email already exists",
		Err:     ErrIdentityTaken,
	}
}

func NewInvalidCredentialsError() *UserError {
	return &UserError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
		Err:     ErrInvalidCredentials,
	}
}

func NewForbiddenError() *UserError {
	return &UserError{
		Code:    ErrCodeForbidden,
		Message: "You can only update your own profile",
		Err:     ErrForbidden,
	}
}
