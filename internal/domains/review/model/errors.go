package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeReviewNotFound  = "REV001"
	ErrCodeAlreadyReviewed = "REV002"
	ErrCodeBookMissing     = "REV003"
)

// Errors
var (
	// ErrReviewNotFound covers both a genuinely absent review and an
	// ownership mismatch, so callers cannot probe other users' reviews.
	ErrReviewNotFound  = errors.New("review not found or unauthorized")
	ErrAlreadyReviewed = errors.New("already reviewed this book")
	ErrBookMissing     = errors.New("book not found")
)

// ReviewError custom error type
type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewReviewNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeReviewNotFound,
		Message: "Review not found or unauthorized",
		Err:     ErrReviewNotFound,
	}
}

func NewAlreadyReviewedError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeAlreadyReviewed,
		Message: "You have already reviewed this book",
		Err:     ErrAlreadyReviewed,
	}
}

func NewBookMissingError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeBookMissing,
		Message: "Book not found",
		Err:     ErrBookMissing,
	}
}
