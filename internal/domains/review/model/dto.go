package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateReviewRequest request to create a review
type CreateReviewRequest struct {
	BookID  string `json:"bookId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, is.MongoID),
		validation.Field(&r.Rating, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&r.Comment, validation.Required, validation.Length(MinCommentLength, MaxCommentLength)),
	)
}

// UpdateReviewRequest request to update a review. Only provided fields
// change; a rating change triggers aggregate recomputation.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&r.Comment, validation.Length(MinCommentLength, MaxCommentLength)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// UserInfo is the reviewer as shown alongside a review.
type UserInfo struct {
	ID           primitive.ObjectID `json:"id"`
	Username     string             `json:"username"`
	ProfileImage string             `json:"profileImage,omitempty"`
}

// BookInfo is the reviewed book as shown on profile pages.
type BookInfo struct {
	ID         primitive.ObjectID `json:"id"`
	Title      string             `json:"title"`
	Author     string             `json:"author"`
	CoverImage string             `json:"coverImage,omitempty"`
}

// ReviewResponse is a review with its author attached.
type ReviewResponse struct {
	ID        primitive.ObjectID `json:"id"`
	BookID    primitive.ObjectID `json:"bookId"`
	Rating    int                `json:"rating"`
	Comment   string             `json:"comment"`
	User      UserInfo           `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// UserReviewResponse is a review with its book attached, for profile pages.
type UserReviewResponse struct {
	ID        primitive.ObjectID `json:"id"`
	Rating    int                `json:"rating"`
	Comment   string             `json:"comment"`
	Book      BookInfo           `json:"book"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
