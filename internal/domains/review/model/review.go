package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a single user's take on a single book. At most one review per
// (user, book) pair, enforced by a unique compound index.
type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	BookID  primitive.ObjectID `bson:"bookId" json:"bookId"`
	Rating  int                `bson:"rating" json:"rating"` // 1-5
	Comment string             `bson:"comment" json:"comment"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

const (
	MinRating = 1
	MaxRating = 5

	MinCommentLength = 10
	MaxCommentLength = 1000
)
