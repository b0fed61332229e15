package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/review/model"
)

// ReviewRepository is the data access contract for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Review, error)
	GetByUserAndBook(ctx context.Context, userID, bookID primitive.ObjectID) (*model.Review, error)
	ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]model.Review, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error)

	// ListRatingsByBook returns just the rating values, for the aggregator.
	ListRatingsByBook(ctx context.Context, bookID primitive.ObjectID) ([]int, error)
}
