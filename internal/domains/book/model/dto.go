package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateBookRequest request to create a book (admin only)
type CreateBookRequest struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	Description   string  `json:"description"`
	PublishedDate string  `json:"publishedDate"` // YYYY-MM-DD
	CoverImage    string  `json:"coverImage"`
	ISBN          *string `json:"isbn"`
	Pages         *int    `json:"pages"`
}

// Validate reports every violated field at once so the caller can fix the
// whole payload in one round trip.
func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Genre, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.PublishedDate, validation.Required, validation.Date(PublishedDateLayout)),
		validation.Field(&r.CoverImage, is.URL),
		validation.Field(&r.ISBN, validation.Length(10, 17)),
		validation.Field(&r.Pages, validation.Min(1)),
	)
}

// ParsedPublishedDate converts the validated date string.
func (r CreateBookRequest) ParsedPublishedDate() (time.Time, error) {
	return time.Parse(PublishedDateLayout, r.PublishedDate)
}

// UpdateBookRequest request to update a book (admin only). All fields
// optional; only provided fields change.
type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	Description   *string `json:"description"`
	PublishedDate *string `json:"publishedDate"`
	CoverImage    *string `json:"coverImage"`
	ISBN          *string `json:"isbn"`
	Pages         *int    `json:"pages"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 300)),
		validation.Field(&r.Author, validation.Length(1, 200)),
		validation.Field(&r.Genre, validation.Length(1, 100)),
		validation.Field(&r.PublishedDate, validation.Date(PublishedDateLayout)),
		validation.Field(&r.ISBN, validation.Length(10, 17)),
		validation.Field(&r.Pages, validation.Min(1)),
	)
}

// ListBooksRequest query parameters for the listing endpoint
type ListBooksRequest struct {
	Search string `form:"search"`
	Genre  string `form:"genre"`
	Rating string `form:"rating"`
	Sort   string `form:"sort"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// Normalize applies listing defaults. Unknown filter and sort values are
// ignored rather than rejected.
func (r *ListBooksRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Genre == "all" {
		r.Genre = ""
	}
}

// MinRating translates the rating filter into a threshold, 0 meaning
// unfiltered.
func (r ListBooksRequest) MinRating() float64 {
	switch r.Rating {
	case RatingFilter4Plus:
		return 4
	case RatingFilter3Plus:
		return 3
	default:
		return 0
	}
}

// ListQuery is the storage-level shape of a listing request.
type ListQuery struct {
	Search    string
	Genre     string
	MinRating float64
	Sort      string
	Page      int
	Limit     int
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ListBooksResponse mirrors the public listing contract.
type ListBooksResponse struct {
	Books       []Book `json:"books"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	Total       int    `json:"total"`
}
