package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book represents a catalog entry. AvgRating and ReviewCount are derived
// from the review set and must never be written by request payloads.
type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author" json:"author"`
	Genre       string             `bson:"genre" json:"genre"`
	Description string             `bson:"description" json:"description"`
	CoverImage  string             `bson:"coverImage" json:"coverImage"`

	PublishedDate time.Time `bson:"publishedDate" json:"publishedDate"`
	ISBN          *string   `bson:"isbn,omitempty" json:"isbn,omitempty"`
	Pages         *int      `bson:"pages,omitempty" json:"pages,omitempty"`

	// Derived from reviews, recomputed on every review mutation
	AvgRating   float64 `bson:"avgRating" json:"avgRating"`
	ReviewCount int     `bson:"reviewCount" json:"reviewCount"`

	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Sort keys accepted by the listing endpoint. Anything else falls back to
// newest-first.
const (
	SortTitle   = "title"
	SortAuthor  = "author"
	SortRating  = "rating"
	SortReviews = "reviews"
)

// Rating filter values accepted by the listing endpoint.
const (
	RatingFilter3Plus = "3+"
	RatingFilter4Plus = "4+"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100

	PublishedDateLayout = "2006-01-02"
)
