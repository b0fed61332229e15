package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeBookNotFound = "BOOK001"
	ErrCodeISBNExists   = "BOOK002"
	ErrCodeInvalidCover = "BOOK003"
)

// Errors
var (
	ErrBookNotFound = errors.New("book not found")
	ErrISBNExists   = errors.New("a book with this ISBN already exists")
	ErrInvalidCover = errors.New("invalid cover image")
)

// BookError custom error type
type BookError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BookError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewBookNotFoundError() *BookError {
	return &BookError{
		Code:    ErrCodeBookNotFound,
		Message: "Book not found",
		Err:     ErrBookNotFound,
	}
}

func NewISBNExistsError() *BookError {
	return &BookError{
		Code:    ErrCodeISBNExists,
		Message: "A book with this ISBN already exists",
		Err:     ErrISBNExists,
	}
}

func NewInvalidCoverError(err error) *BookError {
	return &BookError{
		Code:    ErrCodeInvalidCover,
		Message: "Invalid cover image",
		Err:     err,
	}
}
