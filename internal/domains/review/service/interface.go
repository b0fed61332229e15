package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/review/model"
)

// ReviewService is the business logic contract for reviews.
type ReviewService interface {
	CreateReview(ctx context.Context, userID primitive.ObjectID, req model.CreateReviewRequest) (*model.ReviewResponse, error)
	UpdateReview(ctx context.Context, userID, reviewID primitive.ObjectID, req model.UpdateReviewRequest) (*model.ReviewResponse, error)
	DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID) error
	ListByBook(ctx context.Context, bookID primitive.ObjectID) ([]model.ReviewResponse, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.UserReviewResponse, error)
}
